// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"<", `\<`,
	">", `\>`,
	"|", `\|`,
)

// escapeMarkdown escapes inline metacharacters and any block marker at the
// start of s: bullets, breaks, fences and ordered-list numbers.
func escapeMarkdown(s string) string {
	s = markdownEscaper.Replace(s)
	if s == "" {
		return s
	}
	switch s[0] {
	case '-', '+', '=', '~':
		return `\` + s
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')') {
		return s[:digits] + `\` + s[digits:]
	}
	return s
}

// RenderMarkdown writes one heading per semester, subject and module.
// Modules are numbered in document order within their subject, and each
// subject lists its keywords once.
func RenderMarkdown(w io.Writer, syl *types.Syllabus) error {
	var b strings.Builder
	for i, sem := range syl.Semesters() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "# %s\n", escapeMarkdown(sem.Name))
		for _, sub := range sem.Subjects {
			fmt.Fprintf(&b, "\n## %s\n", escapeMarkdown(sub.Key))
			if kw := subjectKeywords(sub); len(kw) > 0 {
				b.WriteString("\nKeywords:\n\n")
				for _, k := range kw {
					fmt.Fprintf(&b, "- %s\n", escapeMarkdown(k))
				}
			}
			for n, m := range sub.Modules {
				fmt.Fprintf(&b, "\n### %s %d\n\n%s\n", escapeMarkdown(m.Module), n+1, escapeMarkdown(m.Topic))
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// subjectKeywords returns the keywords stored with the subject's first
// module; every module of a subject carries the same list.
func subjectKeywords(sub *types.Subject) []string {
	if len(sub.Modules) == 0 {
		return nil
	}
	return sub.Modules[0].SubjectKeywords
}

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Syllabus</title>
</head>
<body>
`

const htmlTail = `</body>
</html>
`

// RenderHTML converts the Markdown rendering to a standalone HTML page.
func RenderHTML(w io.Writer, syl *types.Syllabus) error {
	var md bytes.Buffer
	if err := RenderMarkdown(&md, syl); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := goldmark.New().Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("converting markdown: %w", err)
	}

	if _, err := io.WriteString(w, htmlHead); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, htmlTail)
	return err
}

// WriteHTML writes syl to path as an HTML page.
func WriteHTML(path string, syl *types.Syllabus) error {
	return Write(path, FormatHTML, syl)
}
