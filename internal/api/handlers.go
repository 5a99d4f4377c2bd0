// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/syllabus-engine/internal/store"
	"github.com/pdiddy/syllabus-engine/pkg/types"
)

type semesterSummary struct {
	Name     string `json:"name"`
	Subjects int    `json:"subjects"`
	Modules  int    `json:"modules"`
}

type subjectSummary struct {
	Key     string `json:"key"`
	Code    string `json:"code"`
	Title   string `json:"title"`
	Modules int    `json:"modules"`
}

type subjectDetail struct {
	Semester string              `json:"semester"`
	Key      string              `json:"key"`
	Code     string              `json:"code"`
	Title    string              `json:"title"`
	Keywords []string            `json:"subject_keywords"`
	Modules  []types.ModuleEntry `json:"modules"`
}

// handleListSemesters lists semesters in document order.
func (s *Server) handleListSemesters(w http.ResponseWriter, r *http.Request) {
	out := []semesterSummary{}
	for _, sem := range s.syllabus.Semesters() {
		out = append(out, semesterSummary{
			Name:     sem.Name,
			Subjects: len(sem.Subjects),
			Modules:  sem.ModuleCount(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"semesters": out})
}

// handleListSubjects lists the subjects of one semester.
func (s *Server) handleListSubjects(w http.ResponseWriter, r *http.Request) {
	ref := urlParam(r, "semester")
	sem, ok := s.resolveSemester(ref)
	if !ok {
		jsonError(w, "semester not found: "+ref, http.StatusNotFound)
		return
	}

	out := []subjectSummary{}
	for _, sub := range sem.Subjects {
		out = append(out, subjectSummary{
			Key:     sub.Key,
			Code:    sub.Code(),
			Title:   sub.Title(),
			Modules: len(sub.Modules),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"semester": sem.Name, "subjects": out})
}

// handleGetSubject returns one subject with its modules.
func (s *Server) handleGetSubject(w http.ResponseWriter, r *http.Request) {
	code := urlParam(r, "code")
	sem, sub, ok := s.syllabus.FindSubject(code)
	if !ok {
		jsonError(w, "subject not found: "+code, http.StatusNotFound)
		return
	}

	detail := subjectDetail{
		Semester: sem.Name,
		Key:      sub.Key,
		Code:     sub.Code(),
		Title:    sub.Title(),
		Keywords: []string{},
		Modules:  []types.ModuleEntry{},
	}
	for _, m := range sub.Modules {
		if m.SubjectKeywords == nil {
			m.SubjectKeywords = []string{}
		}
		detail.Modules = append(detail.Modules, m)
	}
	if len(sub.Modules) > 0 && len(sub.Modules[0].SubjectKeywords) > 0 {
		detail.Keywords = sub.Modules[0].SubjectKeywords
	}
	writeJSON(w, http.StatusOK, detail)
}

// handleSearch queries the syllabus store.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "search store is not configured", http.StatusServiceUnavailable)
		return
	}

	q := r.URL.Query()
	opts := store.QueryOptions{
		Query:       q.Get("q"),
		Semester:    q.Get("semester"),
		SubjectCode: q.Get("subject"),
	}
	if opts.IsEmpty() {
		jsonError(w, "one of q, semester or subject is required", http.StatusBadRequest)
		return
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			jsonError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		opts.MaxResults = n
	}

	results, err := s.store.Search(r.Context(), opts)
	if err != nil {
		s.log.Error("search failed", "error", err, "query", opts.Query)
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []store.Result{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// handleClassify maps a filename to a subject.
func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if s.classifier == nil {
		jsonError(w, "classifier is not configured", http.StatusServiceUnavailable)
		return
	}
	filename := r.URL.Query().Get("filename")
	if strings.TrimSpace(filename) == "" {
		jsonError(w, "filename query parameter is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.classifier.Classify(filename))
}

// resolveSemester accepts a semester name (case-insensitive), or a number
// n matched first as "Semester <roman n>" and then as a 1-based index.
func (s *Server) resolveSemester(ref string) (*types.Semester, bool) {
	ref = strings.TrimSpace(ref)
	sems := s.syllabus.Semesters()
	for _, sem := range sems {
		if strings.EqualFold(sem.Name, ref) {
			return sem, true
		}
	}

	n, err := strconv.Atoi(ref)
	if err != nil || n < 1 {
		return nil, false
	}
	if numeral := roman(n); numeral != "" {
		for _, sem := range sems {
			if strings.EqualFold(sem.Name, "Semester "+numeral) {
				return sem, true
			}
		}
	}
	if n <= len(sems) {
		return sems[n-1], true
	}
	return nil, false
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// roman returns n as a Roman numeral for 1 <= n < 400, else "".
func roman(n int) string {
	if n < 1 || n >= 400 {
		return ""
	}
	var b strings.Builder
	for _, rn := range romanNumerals {
		for n >= rn.value {
			b.WriteString(rn.symbol)
			n -= rn.value
		}
	}
	return b.String()
}

func urlParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if unescaped, err := url.PathUnescape(v); err == nil {
		return unescaped
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
