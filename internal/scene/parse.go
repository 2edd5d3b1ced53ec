package scene

import (
	"fmt"
	"io"
	"os"
)

// ParseFile reads and links the scene at path. Script guids seen in the file
// are forwarded to sink, which may be nil.
func ParseFile(path string, sink ScriptSink) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f, sink)
}

// Parse decodes every document of a scene stream into a linked Scene. Only
// read errors are returned; malformed documents become Issues.
func Parse(name string, r io.Reader, sink ScriptSink) (*Scene, error) {
	s := New(name)
	for doc, err := range SplitDocuments(r) {
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		header, ok := ParseHeader(doc.Header)
		if !ok {
			s.warnf(doc.Line, "unrecognized document header %q; skipping document", doc.Header)
			continue
		}

		record, err := DecodeRecord(header.FileID, []byte(doc.Body))
		if err != nil {
			s.warnf(doc.Line, "document &%d: %v", header.FileID, err)
			continue
		}

		switch rec := record.(type) {
		case *GameObject:
			s.AddGameObject(rec)
		case *Transform:
			s.AddTransform(rec, doc.Line)
		case *ScriptReference:
			if sink != nil {
				sink.MarkUsed(rec.GUID)
			}
		}
	}
	s.Link()
	return s, nil
}
