// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"errors"
	"strings"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// Sentinel errors carried by EventDropped.
var (
	ErrNoSemester = errors.New("module heading before any semester heading")
	ErrNoSubject  = errors.New("module heading before any subject code")
)

// Phase names the scanner's position in the document structure.
type Phase int

const (
	// Seeking: no semester heading has been seen yet.
	Seeking Phase = iota
	// InSemester: the last marker was a semester heading.
	InSemester
	// InSubjectHeader: the last marker was a subject code and its header.
	InSubjectHeader
	// InModule: the last marker was a module heading.
	InModule
)

func (p Phase) String() string {
	switch p {
	case Seeking:
		return "seeking"
	case InSemester:
		return "in-semester"
	case InSubjectHeader:
		return "in-subject-header"
	case InModule:
		return "in-module"
	default:
		return "unknown"
	}
}

// State is the scan context threaded through Step.
type State struct {
	Phase       Phase
	Semester    string
	SubjectCode string
	Subject     string
	Keywords    []string
}

// EventKind classifies what a Step recognized.
type EventKind int

const (
	// EventNone: the line was filler.
	EventNone EventKind = iota
	EventSemester
	EventSubject
	// EventModule: a module with non-empty topic text; Event.Module is set.
	EventModule
	// EventEmptyModule: a module heading whose content was empty.
	EventEmptyModule
	// EventDropped: a module heading seen without semester or subject
	// context; Event.Err says which is missing.
	EventDropped
)

// Event reports the outcome of one Step.
type Event struct {
	Kind     EventKind
	Line     int
	Semester string
	Subject  string
	Module   *types.ModuleEntry
	Err      error
}

// Scanner applies the marker rules to a line stream.
type Scanner struct {
	m *Matcher
}

// NewScanner builds a Scanner from rules.
func NewScanner(rules types.Rules) (*Scanner, error) {
	m, err := NewMatcher(rules)
	if err != nil {
		return nil, err
	}
	return &Scanner{m: m}, nil
}

// Matcher returns the scanner's compiled rules.
func (s *Scanner) Matcher() *Matcher {
	return s.m
}

// Step examines lines[i] and returns the next cursor, the new state and
// the event recognized. The rules apply in priority order: semester heading,
// subject code, module heading, then filler. Step always advances by at
// least one line.
func (s *Scanner) Step(lines []string, i int, st State) (int, State, Event) {
	line := strings.TrimSpace(lines[i])
	ev := Event{Line: i}

	switch {
	case s.m.IsSemester(line):
		st.Semester = TitleCase(line)
		st.Phase = InSemester
		ev.Kind = EventSemester
		ev.Semester = st.Semester
		return i + 1, st, ev

	case s.m.IsSubjectCode(line):
		keywords, next := s.m.CollectHeader(lines, i)
		title := ""
		if len(keywords) > 0 {
			title = keywords[0]
		}
		st.SubjectCode = line
		st.Subject = types.SubjectKey(line, title)
		st.Keywords = keywords
		st.Phase = InSubjectHeader
		ev.Kind = EventSubject
		ev.Semester = st.Semester
		ev.Subject = st.Subject
		return next, st, ev

	case s.m.IsModule(line):
		switch {
		case st.Semester == "":
			ev.Kind = EventDropped
			ev.Err = ErrNoSemester
			return i + 1, st, ev
		case st.Subject == "":
			ev.Kind = EventDropped
			ev.Err = ErrNoSubject
			return i + 1, st, ev
		}
		topic, next := s.m.CollectModule(lines, i+1)
		st.Phase = InModule
		ev.Semester = st.Semester
		ev.Subject = st.Subject
		if topic == "" {
			ev.Kind = EventEmptyModule
			return next, st, ev
		}
		ev.Kind = EventModule
		ev.Module = &types.ModuleEntry{
			Module:          types.ModuleLabel,
			Topic:           topic,
			SubjectKeywords: st.Keywords,
		}
		return next, st, ev
	}

	return i + 1, st, ev
}
