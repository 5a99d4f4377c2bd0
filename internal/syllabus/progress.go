// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"fmt"
	"io"
)

// topicPreview is the number of topic characters shown per module line.
const topicPreview = 100

// Observer receives scanner events during Parse.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// NewProgressPrinter returns an Observer that writes one progress line per
// semester, subject and module to w.
func NewProgressPrinter(w io.Writer) Observer {
	return ObserverFunc(func(ev Event) {
		switch ev.Kind {
		case EventSemester:
			fmt.Fprintf(w, "Found semester: %s\n", ev.Semester)
		case EventSubject:
			fmt.Fprintf(w, "Found subject: %s\n", ev.Subject)
		case EventModule:
			fmt.Fprintf(w, "Found module under %s: %s...\n", ev.Subject, preview(ev.Module.Topic))
		}
	})
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= topicPreview {
		return s
	}
	return string(r[:topicPreview])
}
