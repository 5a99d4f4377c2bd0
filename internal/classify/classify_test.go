// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

func sampleSyllabus() *types.Syllabus {
	syl := types.NewSyllabus()
	add := func(sem, key, topic string) {
		syl.AddModule(sem, key, types.ModuleEntry{Module: types.ModuleLabel, Topic: topic})
	}
	add("Semester I", "FEC101 - Engineering Mathematics-I", "Complex numbers and De Moivre theorem.")
	add("Semester I", "FEC101 - Engineering Mathematics-I", "Matrices and rank of a matrix.")
	add("Semester I", "FEC102 - Engineering Physics-I", "Quantum mechanics and wave functions.")
	add("Semester Ii", "FEC201 - Engineering Mathematics-II", "Differential equations of first order.")
	add("Semester Ii", "FEC205 - ", "Workshop practice.")
	return syl
}

func TestClassify(t *testing.T) {
	c := New(sampleSyllabus())

	tests := []struct {
		file string
		want Result
	}{
		{"quantum_physics_notes.pdf", Result{Code: "FEC102", Name: "Engineering Physics-I", Score: 4}},
		{"Maths-II_differential.docx", Result{Code: "FEC201", Name: "Engineering Mathematics-II", Score: 4}},
		{"/home/u/notes/matrix rank.pdf", Result{Code: "FEC101", Name: "Engineering Mathematics-I", Score: 4}},
		{"matrices2.pdf", Result{Code: "FEC101", Name: "Engineering Mathematics-I", Score: 1}},
		{"engineering.pdf", Result{Code: "FEC101", Name: "Engineering Mathematics-I", Score: 2}},
		{"workshop.txt", Result{Code: "FEC205", Name: "General", Score: 2}},
		{"random-notes.pdf", General},
		{"x.pdf", General},
		{".pdf", General},
		{"", General},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.file))
		})
	}
}

func TestClassify_PartialHitCountsOncePerToken(t *testing.T) {
	syl := types.NewSyllabus()
	syl.AddModule("Semester I", "FEC101 - Thermo", types.ModuleEntry{Topic: "thermodynamics thermometry thermostats"})
	c := New(syl)

	got := c.Classify("therm.pdf")
	assert.Equal(t, "FEC101", got.Code)
	assert.Equal(t, 1, got.Score)
}

func TestClassify_Cached(t *testing.T) {
	c := New(sampleSyllabus())
	first := c.Classify("Quantum_Physics.pdf")
	assert.Len(t, c.cache, 1)

	second := c.Classify("quantum_physics.txt")
	assert.Equal(t, first, second)
	assert.Len(t, c.cache, 1, "same base name must hit the cache")
}

func TestClassify_Concurrent(t *testing.T) {
	c := New(sampleSyllabus())
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := c.Classify(fmt.Sprintf("quantum-%d.pdf", i%4))
			assert.Equal(t, "FEC102", got.Code)
		}()
	}
	wg.Wait()
}

func TestNew_MergesRepeatedCodes(t *testing.T) {
	syl := types.NewSyllabus()
	syl.AddModule("Semester I", "FEC101 - Mechanics", types.ModuleEntry{Topic: "Statics."})
	syl.AddModule("Semester Ii", "FEC101 - Mechanics", types.ModuleEntry{Topic: "Dynamics."})
	c := New(syl)

	assert.Equal(t, []string{"mechanics", "statics", "dynamics"}, c.Keywords("FEC101"))
	assert.Nil(t, c.Keywords("FEC999"))
}

func TestTitleWords(t *testing.T) {
	assert.Equal(t,
		[]string{"engineering", "mathematics-ii", "mathematics", "ii", "mathematics"},
		titleWords("Engineering Mathematics-II"))
	assert.Equal(t,
		[]string{"physics-i", "physics", "physics"},
		titleWords("Physics-I"))
	assert.Empty(t, titleWords("A & B"))
}

func TestTopicWords(t *testing.T) {
	assert.Equal(t,
		[]string{"matrices", "rank", "matrix"},
		topicWords("Matrices and rank of a matrix."))
	assert.Equal(t,
		[]string{"non", "linear", "equations"},
		topicWords("Non-linear (equations)"))
}

func TestFilenameTokens(t *testing.T) {
	assert.Equal(t, []string{"quantum", "physics", "notes"}, filenameTokens("quantum_physics-notes"))
	assert.Equal(t, []string{"ch"}, filenameTokens("ch 1 ch"))
	assert.Empty(t, filenameTokens("a_b"))
}
