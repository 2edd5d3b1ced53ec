package codemodel

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"
)

var declarationKinds = map[string]DeclarationKind{
	"class_declaration":     DeclarationClass,
	"record_declaration":    DeclarationClass,
	"struct_declaration":    DeclarationStruct,
	"interface_declaration": DeclarationInterface,
	"enum_declaration":      DeclarationEnum,
}

// CSharpParser extracts type declarations and their fields from C# sources.
// It is not safe for concurrent use.
type CSharpParser struct {
	parser *sitter.Parser
}

// NewCSharpParser creates a new C# parser
func NewCSharpParser() *CSharpParser {
	p := sitter.NewParser()
	p.SetLanguage(csharp.GetLanguage())
	return &CSharpParser{parser: p}
}

func (c *CSharpParser) Language() string {
	return "csharp"
}

func (c *CSharpParser) Extensions() []string {
	return []string{".cs"}
}

func (c *CSharpParser) Parse(filename string, content []byte) (*FileDeclarations, error) {
	tree, err := c.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	result := &FileDeclarations{
		Path:         filename,
		Language:     "csharp",
		Declarations: make([]Declaration, 0),
	}
	c.walk(tree.RootNode(), content, result, -1)
	return result, nil
}

// walk visits node; owner indexes the innermost enclosing declaration.
func (c *CSharpParser) walk(node *sitter.Node, content []byte, result *FileDeclarations, owner int) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "field_declaration":
		if owner >= 0 {
			if fields := c.extractFields(node, content); len(fields) > 0 {
				result.Declarations[owner].Fields = append(result.Declarations[owner].Fields, fields...)
			}
		}
		return
	case "property_declaration":
		if owner >= 0 {
			if field, ok := c.extractBackedProperty(node, content); ok {
				result.Declarations[owner].Fields = append(result.Declarations[owner].Fields, field)
			}
		}
		return
	}

	if kind, ok := declarationKinds[node.Type()]; ok {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			result.Declarations = append(result.Declarations, Declaration{
				Name: strings.TrimSpace(nameNode.Content(content)),
				Kind: kind,
				File: result.Path,
				Line: int(node.StartPoint().Row) + 1,
			})
			owner = len(result.Declarations) - 1
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		c.walk(node.NamedChild(i), content, result, owner)
	}
}

func (c *CSharpParser) extractFields(node *sitter.Node, content []byte) []Field {
	var (
		attributes []string
		modifiers  []string
		decl       *sitter.Node
	)
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "attribute_list":
			attributes = append(attributes, c.attributeNames(child, content)...)
		case "modifier":
			modifiers = append(modifiers, strings.TrimSpace(child.Content(content)))
		case "variable_declaration":
			decl = child
		}
	}
	if decl == nil {
		return nil
	}

	typeNode := decl.ChildByFieldName("type")
	if typeNode == nil && decl.NamedChildCount() > 0 {
		typeNode = decl.NamedChild(0)
	}
	types := c.typeNames(typeNode, content)
	serialized := isSerialized(modifiers, attributes)

	fields := make([]Field, 0, 1)
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		declarator := decl.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		name := c.declaratorName(declarator, content)
		if name == "" {
			continue
		}
		fields = append(fields, Field{
			Name:       name,
			Types:      append([]string(nil), types...),
			Serialized: serialized,
		})
	}
	return fields
}

// extractBackedProperty handles auto-properties whose backing field is
// serialized through a [field: SerializeField] attribute.
func (c *CSharpParser) extractBackedProperty(node *sitter.Node, content []byte) (Field, bool) {
	serialized := false
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "attribute_list" {
			continue
		}
		text := strings.ReplaceAll(child.Content(content), " ", "")
		if !strings.HasPrefix(text, "[field:") {
			continue
		}
		for _, name := range c.attributeNames(child, content) {
			if name == "SerializeField" || name == "SerializeReference" {
				serialized = true
			}
		}
	}
	if !serialized {
		return Field{}, false
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Field{}, false
	}
	return Field{
		Name:       strings.TrimSpace(nameNode.Content(content)),
		Types:      c.typeNames(node.ChildByFieldName("type"), content),
		Serialized: true,
	}, true
}

func (c *CSharpParser) attributeNames(list *sitter.Node, content []byte) []string {
	names := make([]string, 0, 1)
	for i := 0; i < int(list.NamedChildCount()); i++ {
		attr := list.NamedChild(i)
		if attr.Type() != "attribute" {
			continue
		}
		nameNode := attr.ChildByFieldName("name")
		if nameNode == nil && attr.NamedChildCount() > 0 {
			nameNode = attr.NamedChild(0)
		}
		if nameNode == nil {
			continue
		}
		names = append(names, normalizeAttribute(nameNode.Content(content)))
	}
	return names
}

func (c *CSharpParser) declaratorName(declarator *sitter.Node, content []byte) string {
	if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
		return strings.TrimSpace(nameNode.Content(content))
	}
	for i := 0; i < int(declarator.NamedChildCount()); i++ {
		child := declarator.NamedChild(i)
		if child.Type() == "identifier" {
			return strings.TrimSpace(child.Content(content))
		}
	}
	return ""
}

// typeNames lists every identifier in a type expression, so that
// List<Enemy> yields List and Enemy.
func (c *CSharpParser) typeNames(node *sitter.Node, content []byte) []string {
	if node == nil {
		return nil
	}
	names := make([]string, 0, 2)
	seen := make(map[string]bool)
	var collect func(n *sitter.Node)
	collect = func(n *sitter.Node) {
		if n.Type() == "identifier" {
			name := strings.TrimSpace(n.Content(content))
			if name != "" && !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			collect(n.NamedChild(i))
		}
	}
	collect(node)
	return names
}

func normalizeAttribute(raw string) string {
	name := strings.TrimSpace(raw)
	if idx := strings.LastIndex(name, "."); idx != -1 {
		name = name[idx+1:]
	}
	return strings.TrimSuffix(name, "Attribute")
}

// isSerialized mirrors Unity's field serialization rules: public or
// [SerializeField]/[SerializeReference], never static, const, readonly or
// [NonSerialized].
func isSerialized(modifiers, attributes []string) bool {
	public := false
	for _, m := range modifiers {
		switch m {
		case "public":
			public = true
		case "static", "const", "readonly":
			return false
		}
	}
	marked := false
	for _, a := range attributes {
		switch a {
		case "NonSerialized":
			return false
		case "SerializeField", "SerializeReference":
			marked = true
		}
	}
	return public || marked
}
