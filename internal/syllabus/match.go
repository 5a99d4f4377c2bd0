// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syllabus reconstructs the semester → subject → module structure of
// a syllabus from a flat stream of text lines.
//
// The scanner is a small finite-state machine. Each Step classifies the line
// under the cursor as a semester heading, a subject code, a module heading, or
// filler, and returns the next cursor position together with the updated
// State. Step is pure: it never mutates the Syllabus, so every transition can
// be tested in isolation. Parse drives Step over a whole document and records
// module events.
package syllabus

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// Matcher holds the compiled marker rules.
type Matcher struct {
	semester *regexp.Regexp
	subject  *regexp.Regexp

	moduleKeyword       string
	skipPrefix          string
	headerLookahead     int
	headerStopsAtModule bool
}

// NewMatcher compiles rules. Empty fields fall back to DefaultRules.
func NewMatcher(rules types.Rules) (*Matcher, error) {
	def := types.DefaultRules()
	if rules.SemesterPattern == "" {
		rules.SemesterPattern = def.SemesterPattern
	}
	if rules.SubjectCodePattern == "" {
		rules.SubjectCodePattern = def.SubjectCodePattern
	}
	if rules.ModuleKeyword == "" {
		rules.ModuleKeyword = def.ModuleKeyword
	}
	if rules.SkipPrefix == "" {
		rules.SkipPrefix = def.SkipPrefix
	}
	if rules.HeaderLookahead <= 0 {
		rules.HeaderLookahead = def.HeaderLookahead
	}

	sem, err := regexp.Compile(rules.SemesterPattern)
	if err != nil {
		return nil, fmt.Errorf("compiling semester pattern: %w", err)
	}
	sub, err := regexp.Compile(rules.SubjectCodePattern)
	if err != nil {
		return nil, fmt.Errorf("compiling subject code pattern: %w", err)
	}

	return &Matcher{
		semester:            sem,
		subject:             sub,
		moduleKeyword:       rules.ModuleKeyword,
		skipPrefix:          rules.SkipPrefix,
		headerLookahead:     rules.HeaderLookahead,
		headerStopsAtModule: rules.HeaderStopsAtModule,
	}, nil
}

// MustMatcher is NewMatcher for rules known to be valid.
func MustMatcher(rules types.Rules) *Matcher {
	m, err := NewMatcher(rules)
	if err != nil {
		panic(err)
	}
	return m
}

// IsSemester reports whether the trimmed line is a semester heading.
func (m *Matcher) IsSemester(line string) bool {
	return m.semester.MatchString(strings.TrimSpace(line))
}

// IsSubjectCode reports whether the trimmed line is exactly a subject code.
func (m *Matcher) IsSubjectCode(line string) bool {
	return m.subject.MatchString(strings.TrimSpace(line))
}

// IsModule reports whether the line contains the module keyword.
func (m *Matcher) IsModule(line string) bool {
	return strings.Contains(line, m.moduleKeyword)
}

// skipped reports whether a cleaned line carries no content.
func (m *Matcher) skipped(cleaned string) bool {
	return cleaned == "" || strings.HasPrefix(cleaned, m.skipPrefix)
}

// CleanText trims s and collapses internal whitespace runs to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest, where a word starts after any non-letter ("semester ii" becomes
// "Semester Ii").
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
