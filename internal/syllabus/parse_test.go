// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// sampleLines mimics the text layout of the first-year syllabus. The
// FEC103 header fills the whole look-ahead window so the scanner lands on
// the following semester heading.
func sampleLines() []string {
	return []string{
		"University of Mumbai",
		"Module 0 overview",
		"Semester I",
		"FEC101",
		"Engineering Mathematics-I",
		"Teaching Scheme (Hrs.)",
		"Course Objectives",
		"Module 1",
		"Complex Numbers:",
		"Teaching hours: 6",
		"Powers and roots.",
		"",
		"Module 2",
		"Hyperbolic functions.",
		"FEC102",
		"Engineering Physics-I",
		"Module 1",
		"Quantum Physics.",
		"FEC103",
		"Engineering Chemistry-I",
		"Theory 3",
		"Practical 1",
		"Tutorial 0",
		"Total 4",
		"Examination Scheme",
		"Internal Assessment",
		"End Sem Exam 80",
		"Duration 3 hrs",
		"Semester II",
		"FEC201",
		"Engineering Mathematics-II",
		"Module 1",
		"Differential equations.",
		"FEC202",
		"Engineering Physics-II",
	}
}

func TestParse_SampleDocument(t *testing.T) {
	syl, rep, err := Parse(sampleLines(), Options{Rules: types.DefaultRules()})
	require.NoError(t, err)

	assert.Equal(t, Report{Semesters: 2, Subjects: 5, Modules: 4, Dropped: 1}, rep)
	assert.Equal(t, 4, syl.ModuleCount())

	require.Len(t, syl.Semesters(), 2)
	sem1 := syl.Semesters()[0]
	assert.Equal(t, "Semester I", sem1.Name)
	require.Len(t, sem1.Subjects, 2, "FEC103 has no modules and must not appear")

	maths := sem1.Subjects[0]
	assert.Equal(t, "FEC101 - Engineering Mathematics-I", maths.Key)
	require.Len(t, maths.Modules, 2)
	assert.Equal(t, "Complex Numbers: Powers and roots.", maths.Modules[0].Topic)
	assert.Equal(t, "Hyperbolic functions.", maths.Modules[1].Topic)
	assert.Equal(t, []string{"Engineering Mathematics-I", "Course Objectives"}, maths.Modules[0].SubjectKeywords)

	sem2 := syl.Semesters()[1]
	assert.Equal(t, "Semester Ii", sem2.Name)
	require.Len(t, sem2.Subjects, 1, "FEC202 has no modules and must not appear")
	assert.Equal(t, "FEC201 - Engineering Mathematics-II", sem2.Subjects[0].Key)
}

func TestParse_HeaderFollowedByModule(t *testing.T) {
	lines := []string{"Semester I", "FEC101", "Digital Logic Design", "Module 1", "Binary numbers.", "Boolean algebra.", "FEC102"}

	t.Run("header stops at module", func(t *testing.T) {
		syl, rep, err := Parse(lines, Options{Rules: types.DefaultRules()})
		require.NoError(t, err)
		assert.Equal(t, 1, rep.Modules)

		sem, ok := syl.Semester("Semester I")
		require.True(t, ok)
		sub, ok := sem.Subject("FEC101 - Digital Logic Design")
		require.True(t, ok)
		require.Len(t, sub.Modules, 1)
		assert.Equal(t, "Binary numbers. Boolean algebra.", sub.Modules[0].Topic)
		assert.Equal(t, []string{"Digital Logic Design"}, sub.Modules[0].SubjectKeywords)
	})

	t.Run("fixed window absorbs module", func(t *testing.T) {
		rules := types.DefaultRules()
		rules.HeaderStopsAtModule = false
		syl, rep, err := Parse(lines, Options{Rules: rules})
		require.NoError(t, err)
		assert.Equal(t, 0, rep.Modules)
		assert.Equal(t, 2, rep.Subjects)
		assert.True(t, syl.IsEmpty())
	})
}

func TestParse_ModuleWithoutContext(t *testing.T) {
	lines := []string{"Module 1", "orphan", "Semester I", "Module 2", "orphan", "FEC101", "A"}

	syl, rep, err := Parse(lines, Options{Rules: types.DefaultRules()})
	require.NoError(t, err)
	assert.True(t, syl.IsEmpty())
	assert.Equal(t, 2, rep.Dropped)
	assert.Equal(t, 0, rep.Modules)
}

func TestParse_Strict(t *testing.T) {
	lines := []string{"Intro", "Semester I", "Module 2", "text"}

	_, rep, err := Parse(lines, Options{Rules: types.DefaultRules(), Strict: true})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoSubject)
	assert.Contains(t, err.Error(), "line 3")
	assert.Equal(t, 1, rep.Dropped)
}

func TestParse_TeachingExcluded(t *testing.T) {
	lines := []string{"Semester I", "FEC101", "Maths", "Teaching Scheme", "Module 1", "Teaching hours 4", "Matrices."}

	syl, _, err := Parse(lines, Options{Rules: types.DefaultRules()})
	require.NoError(t, err)

	_, sub, ok := syl.FindSubject("FEC101")
	require.True(t, ok)
	require.Len(t, sub.Modules, 1)
	assert.Equal(t, "Matrices.", sub.Modules[0].Topic)
	assert.Equal(t, []string{"Maths"}, sub.Modules[0].SubjectKeywords)
	for _, kw := range sub.Modules[0].SubjectKeywords {
		assert.False(t, strings.HasPrefix(kw, "Teaching"))
	}
}

func TestParse_EmptyModuleSkipped(t *testing.T) {
	lines := []string{"Semester I", "FEC101", "Maths", "Module 1", "Module 2", "Topic"}

	syl, rep, err := Parse(lines, Options{Rules: types.DefaultRules()})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Modules)
	assert.Equal(t, 1, rep.EmptyModules)
	assert.Equal(t, 1, syl.ModuleCount())
}

func TestParse_ModuleTextRunsToNextMarker(t *testing.T) {
	// Only subject codes and module headings end module text.
	lines := []string{"Semester I", "FEC101", "A", "Module 1", "t1", "Semester II", "Module 2", "t2"}

	syl, _, err := Parse(lines, Options{Rules: types.DefaultRules()})
	require.NoError(t, err)

	sem, ok := syl.Semester("Semester I")
	require.True(t, ok)
	sub, ok := sem.Subject("FEC101 - A")
	require.True(t, ok)
	require.Len(t, sub.Modules, 2)
	assert.Equal(t, "t1 Semester II", sub.Modules[0].Topic)
	assert.Equal(t, "t2", sub.Modules[1].Topic)
}

func TestParse_EmptyInput(t *testing.T) {
	syl, rep, err := Parse(nil, Options{})
	require.NoError(t, err)
	assert.True(t, syl.IsEmpty())
	assert.Equal(t, Report{}, rep)
}

func TestParse_InvalidRules(t *testing.T) {
	_, _, err := Parse(sampleLines(), Options{Rules: types.Rules{SemesterPattern: "("}})
	assert.Error(t, err)
}

func TestParse_Deterministic(t *testing.T) {
	first, _, err := Parse(sampleLines(), Options{Rules: types.DefaultRules()})
	require.NoError(t, err)
	second, _, err := Parse(sampleLines(), Options{Rules: types.DefaultRules()})
	require.NoError(t, err)

	a, err := json.MarshalIndent(first, "", "  ")
	require.NoError(t, err)
	b, err := json.MarshalIndent(second, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestParse_LinesUnchanged(t *testing.T) {
	lines := sampleLines()
	before := append([]string(nil), lines...)
	_, _, err := Parse(lines, Options{Rules: types.DefaultRules()})
	require.NoError(t, err)
	assert.Equal(t, before, lines)
}

func TestParse_Observer(t *testing.T) {
	var kinds []EventKind
	obs := ObserverFunc(func(ev Event) { kinds = append(kinds, ev.Kind) })

	lines := []string{"Module", "Semester I", "FEC101", "A", "Module 1", "x", "Module 2"}
	_, _, err := Parse(lines, Options{Rules: types.DefaultRules(), Observer: obs})
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventDropped, EventSemester, EventSubject, EventModule, EventEmptyModule}, kinds)
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	long := strings.Repeat("é", 150)
	lines := []string{"Semester I", "FEC101", "Maths", "Module 1", long}

	_, _, err := Parse(lines, Options{Rules: types.DefaultRules(), Observer: NewProgressPrinter(&buf)})
	require.NoError(t, err)

	want := "Found semester: Semester I\n" +
		"Found subject: FEC101 - Maths\n" +
		"Found module under FEC101 - Maths: " + strings.Repeat("é", 100) + "...\n"
	assert.Equal(t, want, buf.String())
}

func TestProgressPrinter_ShortTopic(t *testing.T) {
	var buf bytes.Buffer
	NewProgressPrinter(&buf).Observe(Event{
		Kind:    EventModule,
		Subject: "FEC101 - A",
		Module:  &types.ModuleEntry{Topic: "Sets."},
	})
	assert.Equal(t, "Found module under FEC101 - A: Sets....\n", buf.String())
}
