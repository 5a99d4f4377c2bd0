// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader flattens syllabus documents into ordered text lines.
// Each supported format has its own Loader; ForFile picks one by extension.
// Lines are returned as found, blank lines included, so that the parser sees
// the document's physical layout.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned by ForFile for unknown extensions.
var ErrUnsupported = errors.New("unsupported document type")

// Loader reads a document into lines.
type Loader interface {
	Load(ctx context.Context, path string) ([]string, error)
}

// Options configures loader selection.
type Options struct {
	// FallbackPdftotext retries unreadable PDFs with the pdftotext binary.
	FallbackPdftotext bool
}

// Extensions lists the file extensions ForFile accepts.
var Extensions = []string{".pdf", ".docx", ".html", ".htm", ".txt"}

// ForFile returns the loader for path's extension.
func ForFile(path string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: opts.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".txt":
		return &TextLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
}

// Load selects a loader for path and reads it.
func Load(ctx context.Context, path string, opts Options) ([]string, error) {
	l, err := ForFile(path, opts)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	lines, err := l.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return lines, nil
}

// splitLines splits text on newlines, dropping carriage returns.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
