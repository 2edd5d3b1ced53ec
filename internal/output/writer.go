package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/skelly-dev/unitymap/internal/fileutil"
	"github.com/skelly-dev/unitymap/internal/ledger"
)

const (
	DumpExtension     = ".dump"
	UnusedScriptsFile = "UnusedScripts.csv"
)

// UnusedScriptsHeader is the first row of UnusedScriptsFile.
var UnusedScriptsHeader = []string{"Relative Path", "GUID"}

// DumpFileName returns the dump name for a scene: Main.unity -> Main.unity.dump.
func DumpFileName(scenePath string) string {
	return filepath.Base(scenePath) + DumpExtension
}

// QualifiedDumpFileName names the dump of a scene whose base name is not
// unique in the project: Assets/Levels/Main.unity -> Assets_Levels_Main.unity.dump.
func QualifiedDumpFileName(relPath string) string {
	return strings.ReplaceAll(filepath.ToSlash(relPath), "/", "_") + DumpExtension
}

// Writer places run artifacts in one output directory.
type Writer struct {
	Dir string
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir}
}

// WriteDump stores a hierarchy listing under fileName and returns its path.
func (w *Writer) WriteDump(fileName string, data []byte) (string, error) {
	path := filepath.Join(w.Dir, fileName)
	if _, err := fileutil.WriteIfChanged(path, data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteUnused stores the unused script table and returns its path.
func (w *Writer) WriteUnused(entries []ledger.Entry) (string, error) {
	data, err := EncodeUnused(entries)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.Dir, UnusedScriptsFile)
	if _, err := fileutil.WriteIfChanged(path, data); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// EncodeUnused renders entries as CSV with a header row.
func EncodeUnused(entries []ledger.Entry) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(UnusedScriptsHeader); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if err := cw.Write([]string{entry.RelativePath, entry.GUID}); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
