package scene

// FileID is the per-file record identifier assigned by the Unity editor.
type FileID int64

// Record is one decoded scene document. It is a closed set:
// *GameObject, *Transform or *ScriptReference.
type Record interface {
	isRecord()
}

// GameObject is a named node of the displayed hierarchy.
type GameObject struct {
	ID          FileID
	Name        string
	ParentID    FileID   // 0 when the object is a root
	Children    []FileID // GameObject ids, filled by Link
	TransformID FileID   // 0 when the object has no Transform
}

// Transform carries the parent/child linkage for one GameObject.
type Transform struct {
	ID           FileID
	GameObjectID FileID
	ParentID     FileID   // parent Transform id, 0 for none
	Children     []FileID // Transform ids
	linked       bool
}

// ScriptReference records that a MonoBehaviour uses the script with GUID.
type ScriptReference struct {
	GUID string
}

func (*GameObject) isRecord()      {}
func (*Transform) isRecord()       {}
func (*ScriptReference) isRecord() {}

// Issue captures a non-fatal anomaly found while reading a scene.
type Issue struct {
	File     string `json:"file"`
	Line     int    `json:"line,omitempty"`
	Severity string `json:"severity"` // warning | error
	Message  string `json:"message"`
}

// ScriptSink receives the script guids referenced by a scene.
type ScriptSink interface {
	MarkUsed(guid string)
}
