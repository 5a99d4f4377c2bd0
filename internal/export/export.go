// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders a Syllabus to JSON, YAML, Markdown or HTML and
// reads JSON or YAML syllabi back.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// ErrUnknownFormat is returned for format names and extensions that have no
// renderer.
var ErrUnknownFormat = errors.New("unknown export format")

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatForPath infers the format from path's extension.
func FormatForPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Render writes syl to w in the given format.
func Render(w io.Writer, format Format, syl *types.Syllabus) error {
	switch format {
	case FormatJSON:
		return EncodeJSON(w, syl)
	case FormatYAML:
		return EncodeYAML(w, syl)
	case FormatMarkdown:
		return RenderMarkdown(w, syl)
	case FormatHTML:
		return RenderHTML(w, syl)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Write renders syl and writes it to path. An empty format is inferred from
// the extension. Nothing is written when rendering fails.
func Write(path string, format Format, syl *types.Syllabus) error {
	if format == "" {
		f, err := FormatForPath(path)
		if err != nil {
			return err
		}
		format = f
	}

	var buf bytes.Buffer
	if err := Render(&buf, format, syl); err != nil {
		return fmt.Errorf("rendering %s: %w", format, err)
	}
	return writeFile(path, buf.Bytes())
}

// writeFile creates path, writes data and closes the file, reporting the
// first failure including a failed close.
func writeFile(path string, data []byte) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a JSON or YAML syllabus, chosen by extension. Files without a
// YAML extension are read as JSON.
func Load(path string) (*types.Syllabus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading syllabus: %w", err)
	}

	syl := types.NewSyllabus()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, syl)
	default:
		err = json.Unmarshal(data, syl)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return syl, nil
}
