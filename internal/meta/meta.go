package meta

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extension is appended to an asset path to name its companion file.
const Extension = ".meta"

var ErrNoGUID = errors.New("meta file has no guid")

type document struct {
	FileFormatVersion int    `yaml:"fileFormatVersion"`
	GUID              string `yaml:"guid"`
}

// PathFor returns the companion metadata path of an asset.
func PathFor(asset string) string {
	return asset + Extension
}

// ReadGUID returns the guid declared by the metadata file at path.
func ReadGUID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	guid, err := ParseGUID(f)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return guid, nil
}

// ParseGUID decodes a metadata stream and returns its top-level guid.
func ParseGUID(r io.Reader) (string, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrNoGUID
		}
		return "", fmt.Errorf("invalid meta file: %w", err)
	}
	guid := strings.TrimSpace(doc.GUID)
	if guid == "" {
		return "", ErrNoGUID
	}
	return guid, nil
}
