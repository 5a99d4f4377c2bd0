// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"fmt"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// Options configures Parse.
type Options struct {
	Rules types.Rules

	// Strict fails the parse on the first dropped module heading.
	Strict bool

	// Observer, when non-nil, receives every non-filler event.
	Observer Observer
}

// Report summarizes a parse.
type Report struct {
	Semesters    int
	Subjects     int
	Modules      int
	EmptyModules int
	Dropped      int
}

// Parse runs the scanner over lines and returns the reconstructed syllabus.
// Semesters and subjects appear in the result only once a module has been
// recorded under them.
func Parse(lines []string, opts Options) (*types.Syllabus, Report, error) {
	var rep Report

	sc, err := NewScanner(opts.Rules)
	if err != nil {
		return nil, rep, err
	}

	syl := types.NewSyllabus()
	st := State{Phase: Seeking}
	for i := 0; i < len(lines); {
		var ev Event
		i, st, ev = sc.Step(lines, i, st)

		switch ev.Kind {
		case EventNone:
			continue
		case EventSemester:
			rep.Semesters++
		case EventSubject:
			rep.Subjects++
		case EventModule:
			syl.AddModule(ev.Semester, ev.Subject, *ev.Module)
			rep.Modules++
		case EventEmptyModule:
			rep.EmptyModules++
		case EventDropped:
			rep.Dropped++
		}

		if opts.Observer != nil {
			opts.Observer.Observe(ev)
		}

		if ev.Kind == EventDropped && opts.Strict {
			return syl, rep, fmt.Errorf("line %d: %w", ev.Line+1, ev.Err)
		}
	}

	return syl, rep, nil
}
