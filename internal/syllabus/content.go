// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import "strings"

// CollectModule gathers the topic text of a module whose heading sits just
// before start. It stops, exclusive, at the next subject code or module
// heading and returns that index so the caller re-examines the stopping line.
// Blank lines and skip-prefixed lines are consumed but not kept.
func (m *Matcher) CollectModule(lines []string, start int) (string, int) {
	var parts []string
	i := start
	for ; i < len(lines); i++ {
		if m.IsSubjectCode(lines[i]) || m.IsModule(lines[i]) {
			break
		}
		line := CleanText(lines[i])
		if m.skipped(line) {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " "), i
}

// CollectHeader scans the lines after the subject code at index code and
// returns the cleaned keyword lines and the index where the scan stopped.
// The window covers at most headerLookahead lines. A further subject code
// ends the scan early, as does a module heading when headerStopsAtModule is
// set.
func (m *Matcher) CollectHeader(lines []string, code int) ([]string, int) {
	keywords := []string{}
	end := min(code+1+m.headerLookahead, len(lines))
	j := code + 1
	for ; j < end; j++ {
		next := strings.TrimSpace(lines[j])
		if m.IsSubjectCode(next) {
			break
		}
		if m.headerStopsAtModule && m.IsModule(next) {
			break
		}
		if next != "" && !strings.HasPrefix(next, m.skipPrefix) {
			keywords = append(keywords, CleanText(next))
		}
	}
	return keywords, j
}
