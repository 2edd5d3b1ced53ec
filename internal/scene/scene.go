package scene

import "fmt"

// Scene is the per-file arena of decoded records. Records refer to each
// other by FileID, so forward and dangling references need no special
// handling until Link resolves them.
type Scene struct {
	Path   string
	Issues []Issue

	gameObjects map[FileID]*GameObject
	transforms  map[FileID]*Transform
	objectOrder []FileID
	xformOrder  []FileID
}

// New creates an empty scene for the file at path.
func New(path string) *Scene {
	return &Scene{
		Path:        path,
		gameObjects: make(map[FileID]*GameObject),
		transforms:  make(map[FileID]*Transform),
	}
}

// AddGameObject inserts or merges a GameObject. A repeated id keeps the
// original record and takes the newest non-empty name.
func (s *Scene) AddGameObject(g *GameObject) {
	existing, ok := s.gameObjects[g.ID]
	if !ok {
		s.gameObjects[g.ID] = &GameObject{ID: g.ID, Name: g.Name}
		s.objectOrder = append(s.objectOrder, g.ID)
		return
	}
	if g.Name != "" {
		existing.Name = g.Name
	}
}

// AddTransform inserts or merges a Transform. A repeated id overwrites the
// owner and parent and appends children. A Transform that is not attached
// to any GameObject is dropped with a warning.
func (s *Scene) AddTransform(t *Transform, line int) {
	if t.GameObjectID == 0 {
		s.warnf(line, "Transform %d is not attached to a GameObject; skipping", t.ID)
		return
	}
	existing, ok := s.transforms[t.ID]
	if !ok {
		s.transforms[t.ID] = &Transform{
			ID:           t.ID,
			GameObjectID: t.GameObjectID,
			ParentID:     t.ParentID,
			Children:     append([]FileID(nil), t.Children...),
		}
		s.xformOrder = append(s.xformOrder, t.ID)
		return
	}
	existing.GameObjectID = t.GameObjectID
	existing.ParentID = t.ParentID
	existing.Children = append(existing.Children, t.Children...)
}

// Link resolves Transform references into GameObject parent/children.
// Pass 1 binds every Transform to its GameObject; pass 2 derives the
// GameObject hierarchy from the Transform hierarchy.
func (s *Scene) Link() {
	for _, g := range s.gameObjects {
		g.ParentID = 0
		g.Children = nil
		g.TransformID = 0
	}
	for _, t := range s.transforms {
		t.linked = false
	}

	for _, id := range s.xformOrder {
		t := s.transforms[id]
		g, ok := s.gameObjects[t.GameObjectID]
		if !ok {
			s.warnf(0, "Transform %d references missing GameObject %d; skipping", t.ID, t.GameObjectID)
			continue
		}
		if g.TransformID != 0 {
			s.warnf(0, "GameObject %d already has Transform %d; ignoring Transform %d", g.ID, g.TransformID, t.ID)
			continue
		}
		g.TransformID = t.ID
		t.linked = true
	}

	for _, id := range s.objectOrder {
		g := s.gameObjects[id]
		if g.TransformID == 0 {
			continue
		}
		t := s.transforms[g.TransformID]
		if t.ParentID != 0 {
			if parent, ok := s.owner(t.ParentID); ok {
				g.ParentID = parent
			}
		}

		seen := make(map[FileID]bool, len(t.Children))
		for _, childXform := range t.Children {
			child, ok := s.owner(childXform)
			if !ok || seen[child] || child == g.ID {
				continue
			}
			if s.transforms[childXform].ParentID != t.ID {
				continue
			}
			seen[child] = true
			g.Children = append(g.Children, child)
		}
	}

	s.reportUnreachable()
}

// owner resolves a Transform id to the id of its linked GameObject.
func (s *Scene) owner(transformID FileID) (FileID, bool) {
	t, ok := s.transforms[transformID]
	if !ok || !t.linked {
		return 0, false
	}
	return t.GameObjectID, true
}

// Roots returns the ids of GameObjects without a parent, in first-seen order.
func (s *Scene) Roots() []FileID {
	roots := make([]FileID, 0)
	for _, id := range s.objectOrder {
		if s.gameObjects[id].ParentID == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// GameObject returns the GameObject with the given id.
func (s *Scene) GameObject(id FileID) (*GameObject, bool) {
	g, ok := s.gameObjects[id]
	return g, ok
}

// Transform returns the Transform with the given id.
func (s *Scene) Transform(id FileID) (*Transform, bool) {
	t, ok := s.transforms[id]
	return t, ok
}

// GameObjectCount returns the number of distinct GameObjects.
func (s *Scene) GameObjectCount() int {
	return len(s.gameObjects)
}

// reportUnreachable warns about GameObjects that no root leads to. This
// happens when an m_Father chain loops or disagrees with m_Children.
func (s *Scene) reportUnreachable() {
	reached := make(map[FileID]bool, len(s.gameObjects))
	stack := s.Roots()
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[id] {
			continue
		}
		reached[id] = true
		stack = append(stack, s.gameObjects[id].Children...)
	}
	for _, id := range s.objectOrder {
		if !reached[id] {
			s.warnf(0, "GameObject %d is unreachable from any root (cyclic or inconsistent parent links)", id)
		}
	}
}

func (s *Scene) warnf(line int, format string, args ...any) {
	s.Issues = append(s.Issues, Issue{
		File:     s.Path,
		Line:     line,
		Severity: "warning",
		Message:  fmt.Sprintf(format, args...),
	})
}
