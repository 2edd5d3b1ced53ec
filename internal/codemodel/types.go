package codemodel

// DeclarationKind is the type of a source declaration.
type DeclarationKind int

const (
	DeclarationClass DeclarationKind = iota
	DeclarationStruct
	DeclarationInterface
	DeclarationEnum
)

func (k DeclarationKind) String() string {
	switch k {
	case DeclarationClass:
		return "class"
	case DeclarationStruct:
		return "struct"
	case DeclarationInterface:
		return "interface"
	case DeclarationEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Field is a data member of a declaration.
type Field struct {
	Name       string
	Types      []string // every type name mentioned by the field type
	Serialized bool     // public or explicitly marked for serialization
}

// Declaration is a type declared in a source file.
type Declaration struct {
	Name   string
	Kind   DeclarationKind
	File   string // relative file path, forward slashes
	Line   int
	Fields []Field
}

// FileDeclarations holds every declaration found in one file.
type FileDeclarations struct {
	Path         string
	Language     string
	Declarations []Declaration
}

// Reference is one edge of the "field type of From is To" relation.
type Reference struct {
	From  Declaration
	Field string
	To    Declaration
}

// Issue captures a non-fatal problem found while building the model.
type Issue struct {
	File     string `json:"file"`
	Language string `json:"language,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}
