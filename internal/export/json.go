// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// EncodeJSON writes syl as 2-space indented JSON with a trailing newline.
// HTML characters are written as is.
func EncodeJSON(w io.Writer, syl *types.Syllabus) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(syl); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

// WriteJSON writes syl to path as JSON.
func WriteJSON(path string, syl *types.Syllabus) error {
	return Write(path, FormatJSON, syl)
}

// EncodeYAML writes syl as YAML with 2-space indentation.
func EncodeYAML(w io.Writer, syl *types.Syllabus) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(syl); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// WriteYAML writes syl to path as YAML.
func WriteYAML(path string, syl *types.Syllabus) error {
	return Write(path, FormatYAML, syl)
}
