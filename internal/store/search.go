// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// QueryOptions holds parameters for Search.
type QueryOptions struct {
	// Query is free text matched against module topics, subject titles
	// and keywords. All words must match.
	Query string

	// Semester filters by semester name (case-insensitive).
	Semester string

	// SubjectCode filters by subject code (case-insensitive).
	SubjectCode string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return strings.TrimSpace(q.Query) == "" && q.Semester == "" && q.SubjectCode == ""
}

// Result is one module matched by Search.
type Result struct {
	Source       string   `json:"source" yaml:"source"`
	Semester     string   `json:"semester" yaml:"semester"`
	SubjectKey   string   `json:"subject" yaml:"subject"`
	SubjectCode  string   `json:"subject_code" yaml:"subject_code"`
	SubjectTitle string   `json:"subject_title" yaml:"subject_title"`
	Module       int      `json:"module" yaml:"module"`
	Topic        string   `json:"topic" yaml:"topic"`
	Keywords     []string `json:"subject_keywords" yaml:"subject_keywords"`
	Rank         float64  `json:"rank,omitempty" yaml:"rank,omitempty"`
}

// Search returns matching modules. Text queries are ranked by relevance
// when full-text search is available; otherwise, and for filter-only
// queries, results follow document order.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	words := queryWords(opts.Query)
	if len(words) == 0 && strings.TrimSpace(opts.Query) != "" {
		return nil, nil
	}
	useFTS := s.fts && len(words) > 0

	var (
		qb   strings.Builder
		args []any
	)
	if useFTS {
		qb.WriteString(
			`SELECT src.path, m.semester, m.subject_key, m.subject_code, m.subject_title,
				m.position, m.topic, m.keywords, modules_fts.rank
			FROM modules_fts
			JOIN modules m ON m.rowid = modules_fts.rowid
			JOIN sources src ON src.id = m.source_id
			WHERE modules_fts MATCH ?`)
		args = append(args, ftsQuery(words))
	} else {
		qb.WriteString(
			`SELECT src.path, m.semester, m.subject_key, m.subject_code, m.subject_title,
				m.position, m.topic, m.keywords, 0 AS rank
			FROM modules m
			JOIN sources src ON src.id = m.source_id
			WHERE 1=1`)
		for _, w := range words {
			pattern := "%" + w + "%"
			qb.WriteString(` AND (m.topic LIKE ? OR m.subject_title LIKE ? OR m.keywords LIKE ?)`)
			args = append(args, pattern, pattern, pattern)
		}
	}

	if opts.Semester != "" {
		qb.WriteString(` AND m.semester = ? COLLATE NOCASE`)
		args = append(args, opts.Semester)
	}
	if opts.SubjectCode != "" {
		qb.WriteString(` AND m.subject_code = ? COLLATE NOCASE`)
		args = append(args, opts.SubjectCode)
	}

	if useFTS {
		qb.WriteString(` ORDER BY modules_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY m.source_id, m.semester_pos, m.subject_pos, m.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying syllabus store: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r       Result
			kwJSON  string
			modIdx  int
			rankVal float64
		)
		if err := rows.Scan(
			&r.Source, &r.Semester, &r.SubjectKey, &r.SubjectCode, &r.SubjectTitle,
			&modIdx, &r.Topic, &kwJSON, &rankVal,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Module = modIdx + 1
		r.Rank = rankVal
		if err := json.Unmarshal([]byte(kwJSON), &r.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// SubjectSummary is one subject with its module count.
type SubjectSummary struct {
	Semester string `json:"semester" yaml:"semester"`
	Key      string `json:"key" yaml:"key"`
	Code     string `json:"code" yaml:"code"`
	Title    string `json:"title" yaml:"title"`
	Modules  int    `json:"modules" yaml:"modules"`
}

// Subjects lists indexed subjects in document order. An empty semester
// lists all; a semester with no subjects returns ErrNotFound.
func (s *Store) Subjects(ctx context.Context, semester string) ([]SubjectSummary, error) {
	q := `SELECT m.semester, m.subject_key, m.subject_code, m.subject_title, count(*)
		FROM modules m`
	var args []any
	if semester != "" {
		q += ` WHERE m.semester = ? COLLATE NOCASE`
		args = append(args, semester)
	}
	q += ` GROUP BY m.source_id, m.semester, m.subject_key
		ORDER BY m.source_id, min(m.semester_pos), min(m.subject_pos)`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	defer rows.Close()

	var out []SubjectSummary
	for rows.Next() {
		var sum SubjectSummary
		if err := rows.Scan(&sum.Semester, &sum.Key, &sum.Code, &sum.Title, &sum.Modules); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if semester != "" && len(out) == 0 {
		return nil, fmt.Errorf("semester %q: %w", semester, ErrNotFound)
	}
	return out, nil
}

// queryWords splits free text into letter and digit runs. The runs carry
// no FTS5 or LIKE metacharacters.
func queryWords(q string) []string {
	return strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ftsQuery quotes each word so FTS5 operators in user input are inert.
func ftsQuery(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = `"` + w + `"`
	}
	return strings.Join(quoted, " ")
}
