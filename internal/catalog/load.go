package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a catalog file. The format is chosen by extension:
// .yaml and .yml use DecodeYAML, .cue uses CompileCUE.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	case ".cue":
		return CompileCUE(data, path)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}
}
