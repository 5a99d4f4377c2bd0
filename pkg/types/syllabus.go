// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the syllabus-engine pipeline:
// the ordered Syllabus tree produced by the parser and the configuration
// consumed by each stage.
package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ModuleLabel is the fixed value stored in ModuleEntry.Module.
const ModuleLabel = "Module"

// subjectSeparator joins a subject code and its title in a subject key.
const subjectSeparator = " - "

// ModuleEntry is one module recorded under a subject.
type ModuleEntry struct {
	// Module is always ModuleLabel; the source document numbers modules
	// inconsistently, so the number is not kept.
	Module string `json:"module" yaml:"module"`

	// Topic is the module's content flattened into one line.
	Topic string `json:"topic" yaml:"topic"`

	// SubjectKeywords are the header lines captured when the subject was
	// scanned, stored verbatim with every module of that subject.
	SubjectKeywords []string `json:"subject_keywords" yaml:"subject_keywords"`
}

// Subject groups the modules of one course. Key has the form
// "<CODE> - <Title>"; the title may be empty.
type Subject struct {
	Key     string
	Modules []ModuleEntry
}

// SubjectKey builds the key for a subject code and title.
func SubjectKey(code, title string) string {
	return code + subjectSeparator + title
}

// Code returns the subject code portion of the key.
func (s *Subject) Code() string {
	code, _, _ := strings.Cut(s.Key, subjectSeparator)
	return code
}

// Title returns the title portion of the key.
func (s *Subject) Title() string {
	_, title, _ := strings.Cut(s.Key, subjectSeparator)
	return title
}

// Semester groups subjects in first-seen order.
type Semester struct {
	Name     string
	Subjects []*Subject

	index map[string]int
}

// Subject looks up a subject by its full key.
func (s *Semester) Subject(key string) (*Subject, bool) {
	i, ok := s.index[key]
	if !ok {
		return nil, false
	}
	return s.Subjects[i], true
}

// ModuleCount returns the number of modules across the semester's subjects.
func (s *Semester) ModuleCount() int {
	n := 0
	for _, sub := range s.Subjects {
		n += len(sub.Modules)
	}
	return n
}

func (s *Semester) subjectOrInsert(key string) *Subject {
	if sub, ok := s.Subject(key); ok {
		return sub
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	sub := &Subject{Key: key}
	s.index[key] = len(s.Subjects)
	s.Subjects = append(s.Subjects, sub)
	return sub
}

// Syllabus is the ordered mapping semester → subject → modules. Keys keep
// the order in which they were first inserted, and that order survives JSON
// and YAML round trips. The zero value is an empty syllabus ready to use.
type Syllabus struct {
	semesters []*Semester
	index     map[string]int
}

// NewSyllabus returns an empty Syllabus.
func NewSyllabus() *Syllabus {
	return &Syllabus{}
}

// Semesters returns the semesters in insertion order.
func (s *Syllabus) Semesters() []*Semester {
	return s.semesters
}

// Semester looks up a semester by exact name.
func (s *Syllabus) Semester(name string) (*Semester, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.semesters[i], true
}

// Subjects returns every subject in document order, across semesters.
func (s *Syllabus) Subjects() []*Subject {
	var out []*Subject
	for _, sem := range s.semesters {
		out = append(out, sem.Subjects...)
	}
	return out
}

// FindSubject returns the first subject, in document order, whose code
// matches code (case-insensitive), along with its semester.
func (s *Syllabus) FindSubject(code string) (*Semester, *Subject, bool) {
	for _, sem := range s.semesters {
		for _, sub := range sem.Subjects {
			if strings.EqualFold(sub.Code(), code) {
				return sem, sub, true
			}
		}
	}
	return nil, nil, false
}

// ModuleCount returns the total number of recorded modules.
func (s *Syllabus) ModuleCount() int {
	n := 0
	for _, sem := range s.semesters {
		n += sem.ModuleCount()
	}
	return n
}

// IsEmpty reports whether no semester has been recorded.
func (s *Syllabus) IsEmpty() bool {
	return len(s.semesters) == 0
}

// AddModule appends entry to the module list of (semester, subject),
// inserting the semester and subject keys if they are not present yet.
// The keyword slice is copied so later changes by the caller do not leak in.
func (s *Syllabus) AddModule(semester, subject string, entry ModuleEntry) {
	sub := s.semesterOrInsert(semester).subjectOrInsert(subject)
	entry.SubjectKeywords = append([]string{}, entry.SubjectKeywords...)
	sub.Modules = append(sub.Modules, entry)
}

func (s *Syllabus) semesterOrInsert(name string) *Semester {
	if sem, ok := s.Semester(name); ok {
		return sem
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	sem := &Semester{Name: name}
	s.index[name] = len(s.semesters)
	s.semesters = append(s.semesters, sem)
	return sem
}

// normalizedModules returns the modules with nil keyword lists replaced by
// empty ones so they encode as [] rather than null.
func normalizedModules(mods []ModuleEntry) []ModuleEntry {
	out := make([]ModuleEntry, len(mods))
	for i, m := range mods {
		if m.SubjectKeywords == nil {
			m.SubjectKeywords = []string{}
		}
		out[i] = m
	}
	return out
}

// MarshalJSON encodes the syllabus as nested objects in insertion order.
func (s *Syllabus) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sem := range s.semesters {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeJSONValue(&buf, sem.Name); err != nil {
			return nil, err
		}
		buf.WriteString(":{")
		for j, sub := range sem.Subjects {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := encodeJSONValue(&buf, sub.Key); err != nil {
				return nil, err
			}
			buf.WriteByte(':')
			if err := encodeJSONValue(&buf, normalizedModules(sub.Modules)); err != nil {
				return nil, fmt.Errorf("encoding %s: %w", sub.Key, err)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeJSONValue appends the compact JSON form of v without HTML escaping.
func encodeJSONValue(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// UnmarshalJSON decodes nested objects token by token so that key order is
// preserved. Duplicate keys append to the existing entry.
func (s *Syllabus) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	out := NewSyllabus()

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		semName, err := readKey(dec)
		if err != nil {
			return err
		}
		sem := out.semesterOrInsert(semName)
		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("semester %q: %w", semName, err)
		}
		for dec.More() {
			subKey, err := readKey(dec)
			if err != nil {
				return err
			}
			var mods []ModuleEntry
			if err := dec.Decode(&mods); err != nil {
				return fmt.Errorf("subject %q: %w", subKey, err)
			}
			sub := sem.subjectOrInsert(subKey)
			sub.Modules = append(sub.Modules, mods...)
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return err
	}

	*s = *out
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading syllabus: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("reading syllabus: expected %q, got %v", want, tok)
	}
	return nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("reading syllabus: %w", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("reading syllabus: expected object key, got %v", tok)
	}
	return key, nil
}

// MarshalYAML encodes the syllabus as nested mappings in insertion order.
func (s *Syllabus) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, sem := range s.semesters {
		subjects := &yaml.Node{Kind: yaml.MappingNode}
		for _, sub := range sem.Subjects {
			mods := &yaml.Node{}
			if err := mods.Encode(normalizedModules(sub.Modules)); err != nil {
				return nil, fmt.Errorf("encoding %s: %w", sub.Key, err)
			}
			subjects.Content = append(subjects.Content, stringNode(sub.Key), mods)
		}
		root.Content = append(root.Content, stringNode(sem.Name), subjects)
	}
	return root, nil
}

func stringNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// UnmarshalYAML decodes nested mappings, preserving key order.
func (s *Syllabus) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("reading syllabus: line %d: expected mapping", node.Line)
	}

	out := NewSyllabus()
	for i := 0; i+1 < len(node.Content); i += 2 {
		semName, subjects := node.Content[i].Value, node.Content[i+1]
		sem := out.semesterOrInsert(semName)
		if subjects.Kind != yaml.MappingNode {
			return fmt.Errorf("semester %q: line %d: expected mapping", semName, subjects.Line)
		}
		for j := 0; j+1 < len(subjects.Content); j += 2 {
			subKey := subjects.Content[j].Value
			var mods []ModuleEntry
			if err := subjects.Content[j+1].Decode(&mods); err != nil {
				return fmt.Errorf("subject %q: %w", subKey, err)
			}
			sub := sem.subjectOrInsert(subKey)
			sub.Modules = append(sub.Modules, mods...)
		}
	}

	*s = *out
	return nil
}
