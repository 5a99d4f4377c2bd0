// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/syllabus-engine/internal/classify"
	"github.com/pdiddy/syllabus-engine/internal/store"
	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// --- test helpers ---

type fakeSearcher struct {
	got     store.QueryOptions
	results []store.Result
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, opts store.QueryOptions) ([]store.Result, error) {
	f.got = opts
	return f.results, f.err
}

func sampleSyllabus() *types.Syllabus {
	syl := types.NewSyllabus()
	kw := []string{"Engineering Mathematics-I", "Course Objectives"}
	syl.AddModule("Semester I", "FEC101 - Engineering Mathematics-I", types.ModuleEntry{Module: types.ModuleLabel, Topic: "Complex numbers.", SubjectKeywords: kw})
	syl.AddModule("Semester I", "FEC101 - Engineering Mathematics-I", types.ModuleEntry{Module: types.ModuleLabel, Topic: "Matrices.", SubjectKeywords: kw})
	syl.AddModule("Semester I", "FEC102 - Engineering Physics-I", types.ModuleEntry{Module: types.ModuleLabel, Topic: "Quantum physics."})
	syl.AddModule("Semester Ii", "FEC201 - Engineering Mathematics-II", types.ModuleEntry{Module: types.ModuleLabel, Topic: "Differential equations."})
	return syl
}

func newTestServer(st Searcher, cfg types.ServeConfig) (*Server, *bytes.Buffer) {
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	syl := sampleSyllabus()
	return NewServer(syl, st, classify.New(syl), log, cfg), &logs
}

func get(t *testing.T, h http.Handler, target string, header ...string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

// --- tests ---

func TestHealth(t *testing.T) {
	srv, logs := newTestServer(nil, types.ServeConfig{APIKey: "secret"})
	rec, body := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, logs.String(), `"path":"/health"`)
}

func TestListSemesters(t *testing.T) {
	srv, _ := newTestServer(nil, types.ServeConfig{})
	rec, body := get(t, srv, "/api/semesters")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	sems := body["semesters"].([]any)
	require.Len(t, sems, 2)
	assert.Equal(t, map[string]any{"name": "Semester I", "subjects": 2.0, "modules": 3.0}, sems[0])
	assert.Equal(t, "Semester Ii", sems[1].(map[string]any)["name"])
}

func TestListSubjects_SemesterResolution(t *testing.T) {
	srv, _ := newTestServer(nil, types.ServeConfig{})

	tests := []struct {
		ref      string
		status   int
		semester string
	}{
		{"Semester%20I", http.StatusOK, "Semester I"},
		{"semester%20ii", http.StatusOK, "Semester Ii"},
		{"1", http.StatusOK, "Semester I"},
		{"2", http.StatusOK, "Semester Ii"},
		{"3", http.StatusNotFound, ""},
		{"0", http.StatusNotFound, ""},
		{"Semester%20IX", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			rec, body := get(t, srv, "/api/semesters/"+tt.ref+"/subjects")
			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.Contains(t, body["error"], "semester not found")
				return
			}
			assert.Equal(t, tt.semester, body["semester"])
		})
	}
}

func TestListSubjects_RomanBeforeIndex(t *testing.T) {
	syl := types.NewSyllabus()
	syl.AddModule("Semester Ii", "FEC201 - B", types.ModuleEntry{Topic: "b"})
	syl.AddModule("Semester I", "FEC101 - A", types.ModuleEntry{Topic: "a"})
	srv := NewServer(syl, nil, nil, nil, types.ServeConfig{})

	_, body := get(t, srv, "/api/semesters/1/subjects")
	assert.Equal(t, "Semester I", body["semester"])
	subs := body["subjects"].([]any)
	require.Len(t, subs, 1)
	assert.Equal(t, map[string]any{"key": "FEC101 - A", "code": "FEC101", "title": "A", "modules": 1.0}, subs[0])
}

func TestGetSubject(t *testing.T) {
	srv, _ := newTestServer(nil, types.ServeConfig{})

	rec, body := get(t, srv, "/api/subjects/fec101")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Semester I", body["semester"])
	assert.Equal(t, "FEC101", body["code"])
	assert.Equal(t, "Engineering Mathematics-I", body["title"])
	assert.Equal(t, []any{"Engineering Mathematics-I", "Course Objectives"}, body["subject_keywords"])
	assert.Len(t, body["modules"], 2)

	_, body = get(t, srv, "/api/subjects/FEC102")
	assert.Equal(t, []any{}, body["subject_keywords"])
	mods := body["modules"].([]any)
	assert.Equal(t, []any{}, mods[0].(map[string]any)["subject_keywords"])

	rec, body = get(t, srv, "/api/subjects/FEC999")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "subject not found: FEC999", body["error"])
}

func TestSearch(t *testing.T) {
	fake := &fakeSearcher{results: []store.Result{{Source: "s.json", SubjectCode: "FEC101", Module: 2, Topic: "Matrices."}}}
	srv, _ := newTestServer(fake, types.ServeConfig{})

	rec, body := get(t, srv, "/api/search?q=matrices&semester=Semester+I&subject=FEC101&limit=5")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, store.QueryOptions{Query: "matrices", Semester: "Semester I", SubjectCode: "FEC101", MaxResults: 5}, fake.got)
	results := body["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "Matrices.", results[0].(map[string]any)["topic"])

	fake.results = nil
	_, body = get(t, srv, "/api/search?q=nothing")
	assert.Equal(t, []any{}, body["results"])
}

func TestSearch_Errors(t *testing.T) {
	fake := &fakeSearcher{}
	srv, _ := newTestServer(fake, types.ServeConfig{})

	rec, _ := get(t, srv, "/api/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = get(t, srv, "/api/search?q=x&limit=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	fake.err = errors.New("disk gone")
	rec, body := get(t, srv, "/api/search?q=x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, body["error"], "disk gone")

	noStore, _ := newTestServer(nil, types.ServeConfig{})
	rec, _ = get(t, noStore, "/api/search?q=x")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestClassify(t *testing.T) {
	srv, _ := newTestServer(nil, types.ServeConfig{})

	rec, body := get(t, srv, "/api/classify?filename=quantum_physics_notes.pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "FEC102", body["code"])
	assert.Equal(t, "Engineering Physics-I", body["name"])

	_, body = get(t, srv, "/api/classify?filename=holiday.jpg")
	assert.Equal(t, "GEN", body["code"])
	assert.Equal(t, "General", body["name"])

	rec, _ = get(t, srv, "/api/classify")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bare := NewServer(sampleSyllabus(), nil, nil, nil, types.ServeConfig{})
	rec, _ = get(t, bare, "/api/classify?filename=x.pdf")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuth(t *testing.T) {
	srv, _ := newTestServer(nil, types.ServeConfig{APIKey: "secret"})

	rec, body := get(t, srv, "/api/semesters")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing authorization", body["error"])

	rec, body = get(t, srv, "/api/semesters", "Authorization", "Bearer wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid api key", body["error"])

	rec, _ = get(t, srv, "/api/semesters", "Authorization", "Bearer secret")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNotFoundAndMethod(t *testing.T) {
	srv, _ := newTestServer(nil, types.ServeConfig{})

	rec, body := get(t, srv, "/api/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", body["error"])

	req := httptest.NewRequest(http.MethodPost, "/api/semesters", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRoman(t *testing.T) {
	tests := map[int]string{1: "I", 2: "II", 4: "IV", 8: "VIII", 9: "IX", 14: "XIV", 49: "XLIX", 0: "", 400: ""}
	for n, want := range tests {
		assert.Equal(t, want, roman(n), "roman(%d)", n)
	}
}
