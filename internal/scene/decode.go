package scene

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Top-level keys that select a record kind.
const (
	TagGameObject    = "GameObject"
	TagTransform     = "Transform"
	TagMonoBehaviour = "MonoBehaviour"
)

var (
	errMissingName     = errors.New("GameObject has no m_Name")
	errMissingChildren = errors.New("Transform has no m_Children sequence")
	errDetached        = errors.New("Transform has no m_GameObject; skipping")
)

// DecodeRecord decodes one document body. The first top-level key naming a
// known record kind wins. A nil Record with a nil error means the document
// carries nothing of interest.
func DecodeRecord(id FileID, body []byte) (Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("invalid document body: %w", err)
	}
	root := documentRoot(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, nil
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		value := resolve(root.Content[i+1])
		switch root.Content[i].Value {
		case TagGameObject:
			return decodeGameObject(id, value)
		case TagTransform:
			return decodeTransform(id, value)
		case TagMonoBehaviour:
			return decodeScriptReference(value), nil
		}
	}
	return nil, nil
}

func decodeGameObject(id FileID, n *yaml.Node) (Record, error) {
	name, ok := field(n, "m_Name")
	if !ok || name.Kind != yaml.ScalarNode {
		return nil, errMissingName
	}
	return &GameObject{ID: id, Name: name.Value}, nil
}

func decodeTransform(id FileID, n *yaml.Node) (Record, error) {
	owner, ok := nestedID(n, "m_GameObject")
	if !ok {
		return nil, errDetached
	}
	parent, _ := nestedID(n, "m_Father")

	children, ok := field(n, "m_Children")
	if !ok || children.Kind != yaml.SequenceNode {
		return nil, errMissingChildren
	}

	t := &Transform{
		ID:           id,
		GameObjectID: owner,
		ParentID:     parent,
		Children:     make([]FileID, 0, len(children.Content)),
	}
	for _, item := range children.Content {
		ref, ok := field(resolve(item), "fileID")
		if !ok || ref.Kind != yaml.ScalarNode {
			continue
		}
		t.Children = append(t.Children, parseFileID(strings.TrimSpace(ref.Value)))
	}
	return t, nil
}

func decodeScriptReference(n *yaml.Node) Record {
	script, ok := field(n, "m_Script")
	if !ok {
		return nil
	}
	guid, ok := field(script, "guid")
	if !ok || guid.Kind != yaml.ScalarNode {
		return nil
	}
	value := strings.TrimSpace(guid.Value)
	if value == "" {
		return nil
	}
	return &ScriptReference{GUID: value}
}

// nestedID reads key.fileID as an identifier. Unparsable values become 0.
func nestedID(n *yaml.Node, key string) (FileID, bool) {
	ref, ok := field(n, key)
	if !ok {
		return 0, false
	}
	id, ok := field(ref, "fileID")
	if !ok || id.Kind != yaml.ScalarNode {
		return 0, false
	}
	return parseFileID(strings.TrimSpace(id.Value)), true
}

func field(n *yaml.Node, key string) (*yaml.Node, bool) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return resolve(n.Content[i+1]), true
		}
	}
	return nil, false
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return nil
		}
		return resolve(doc.Content[0])
	}
	return resolve(doc)
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}
