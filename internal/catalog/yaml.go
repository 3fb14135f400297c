package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML catalog document.
// Unknown fields are rejected so typos in group markers surface early.
func DecodeYAML(data []byte) (*Catalog, error) {
	var raw rawCatalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{Products: []Product{}}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return build(raw)
}
