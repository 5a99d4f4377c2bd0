// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Semester ii", "Semester Ii"},
		{"SEMESTER I", "Semester I"},
		{"semester iv (2019)", "Semester Iv (2019)"},
		{"o'neil-smith", "O'Neil-Smith"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleCase(tt.in))
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a \t b  c  "))
	assert.Equal(t, "", CleanText(" \t "))
}

func TestMatcher_Markers(t *testing.T) {
	m := MustMatcher(types.DefaultRules())

	tests := []struct {
		line     string
		semester bool
		subject  bool
		module   bool
	}{
		{"FEC101", false, true, false},
		{"  FEC101  ", false, true, false},
		{"FEC1011", false, false, false},
		{"FEC101 Engineering Mathematics", false, false, false},
		{"Semester ii", true, false, false},
		{"SEMESTER IV Scheme", true, false, false},
		{"Final Semester I", false, false, false},
		{"Module 1", false, false, true},
		{"Sub-Module details", false, false, true},
		{"module 1", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.semester, m.IsSemester(tt.line), "semester")
			assert.Equal(t, tt.subject, m.IsSubjectCode(tt.line), "subject")
			assert.Equal(t, tt.module, m.IsModule(tt.line), "module")
		})
	}
}

func TestNewMatcher_InvalidPattern(t *testing.T) {
	_, err := NewMatcher(types.Rules{SubjectCodePattern: "("})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subject code pattern")

	_, err = NewMatcher(types.Rules{SemesterPattern: "[a-"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "semester pattern")
}

func TestNewMatcher_EmptyRulesUseDefaults(t *testing.T) {
	m, err := NewMatcher(types.Rules{})
	require.NoError(t, err)
	assert.True(t, m.IsSubjectCode("FEC205"))
	assert.Equal(t, 9, m.headerLookahead)
	assert.False(t, m.headerStopsAtModule)
}

func TestMatcher_CustomRules(t *testing.T) {
	m := MustMatcher(types.Rules{
		SubjectCodePattern: `^CS\d{3}$`,
		ModuleKeyword:      "Unit",
		SkipPrefix:         "Credits",
	})
	assert.True(t, m.IsSubjectCode("CS301"))
	assert.False(t, m.IsSubjectCode("FEC101"))
	assert.True(t, m.IsModule("Unit 3"))
	assert.False(t, m.IsModule("Module 3"))
}
