// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Glyphs closer than yNudge points vertically are treated as one line.
const yNudge = 1.0

// A horizontal gap wider than cellGap font sizes separates table cells.
const cellGap = 2.0

// PDFLoader reads PDFs with the Go library and, when enabled, falls back to
// pdftotext if the library fails or yields no text.
type PDFLoader struct {
	FallbackPdftotext bool

	// pdftotext runs the external tool; nil uses exec.
	pdftotext func(ctx context.Context, path string) ([]byte, error)
}

// Load returns the document's lines, page by page.
func (l *PDFLoader) Load(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := readPDF(path)
	if err == nil && hasText(lines) {
		return lines, nil
	}
	if !l.FallbackPdftotext {
		if err != nil {
			return nil, fmt.Errorf("reading pdf: %w", err)
		}
		return lines, nil
	}

	run := l.pdftotext
	if run == nil {
		run = runPdftotext
	}
	out, ferr := run(ctx, path)
	if ferr != nil {
		if err != nil {
			return nil, fmt.Errorf("reading pdf: %w (fallback: %v)", err, ferr)
		}
		// The library read the file but found no text; keep its result.
		return lines, nil
	}
	return splitPdftotext(string(out)), nil
}

// readPDF extracts lines from every page in order. Pages with a null
// object contribute nothing.
func readPDF(path string) (lines []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	f, r, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, glyphLines(page.Content().Text)...)
	}
	return lines, nil
}

// glyphLines rebuilds text lines from positioned glyphs: top to bottom,
// then left to right. A gap wider than a sixth of the font size between two
// glyphs on a baseline becomes a space; a gap wider than cellGap font sizes
// starts a new line, so table cells sharing a baseline stay apart.
func glyphLines(glyphs []pdflib.Text) []string {
	if len(glyphs) == 0 {
		return nil
	}
	chars := make([]pdflib.Text, len(glyphs))
	copy(chars, glyphs)

	sort.Stable(pdflib.TextVertical(chars))
	prev := math.Inf(-1)
	for i := range chars {
		if chars[i].Y != prev && math.Abs(prev-chars[i].Y) < yNudge {
			chars[i].Y = prev
		} else {
			prev = chars[i].Y
		}
	}
	sort.Stable(pdflib.TextVertical(chars))

	var lines []string
	for i := 0; i < len(chars); {
		j := i + 1
		for j < len(chars) && chars[j].Y == chars[i].Y {
			j++
		}

		var b strings.Builder
		end := math.Inf(-1)
		for k := i; k < j; k++ {
			c := chars[k]
			switch {
			case b.Len() > 0 && c.X > end+cellGap*c.FontSize:
				lines = append(lines, b.String())
				b.Reset()
			case b.Len() > 0 && c.X > end+c.FontSize/6:
				b.WriteByte(' ')
			}
			b.WriteString(c.S)
			end = c.X + c.W
		}
		lines = append(lines, b.String())
		i = j
	}
	return lines
}

func hasText(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}

func runPdftotext(ctx context.Context, path string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, "pdftotext", path, "-").Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	return out, nil
}

// splitPdftotext turns pdftotext output into lines. Form feeds separate
// pages; the empty tail after the last one is dropped.
func splitPdftotext(out string) []string {
	var lines []string
	pages := strings.Split(out, "\f")
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	for _, page := range pages {
		lines = append(lines, splitLines(page)...)
	}
	return lines
}
