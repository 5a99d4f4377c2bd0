// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// DefaultInput is the syllabus document read when no input is given.
const DefaultInput = "FE-Final-Syllabus-approved-by-AC-on-26th-July-2019.pdf"

// DefaultOutput is the file written by the extract stage.
const DefaultOutput = "syllabus_structure.json"

// Rules holds the marker conventions the parser recognizes. The defaults
// match the first-year engineering syllabus layout.
type Rules struct {
	// SemesterPattern matches a semester heading. Matched against the
	// trimmed line; anchored at the start only.
	SemesterPattern string `json:"semester_pattern" yaml:"semester_pattern" mapstructure:"semester_pattern"`

	// SubjectCodePattern matches a line holding only a subject code.
	SubjectCodePattern string `json:"subject_code_pattern" yaml:"subject_code_pattern" mapstructure:"subject_code_pattern"`

	// ModuleKeyword marks a module heading when it appears anywhere in a
	// line (case-sensitive).
	ModuleKeyword string `json:"module_keyword" yaml:"module_keyword" mapstructure:"module_keyword"`

	// SkipPrefix excludes lines such as teaching-scheme tables from subject
	// keywords and module topics.
	SkipPrefix string `json:"skip_prefix" yaml:"skip_prefix" mapstructure:"skip_prefix"`

	// HeaderLookahead is the number of lines after a subject code that are
	// scanned for the subject title and keywords (default 9).
	HeaderLookahead int `json:"header_lookahead" yaml:"header_lookahead" mapstructure:"header_lookahead"`

	// HeaderStopsAtModule ends the subject header scan early at a module
	// heading so that the heading is not swallowed as a keyword.
	HeaderStopsAtModule bool `json:"header_stops_at_module" yaml:"header_stops_at_module" mapstructure:"header_stops_at_module"`
}

// DefaultRules returns the conventions of the FE syllabus.
func DefaultRules() Rules {
	return Rules{
		SemesterPattern:     `(?i)^Semester\s+[IVXLC]+`,
		SubjectCodePattern:  `^FEC\d{3}$`,
		ModuleKeyword:       "Module",
		SkipPrefix:          "Teaching",
		HeaderLookahead:     9,
		HeaderStopsAtModule: true,
	}
}

// ExtractConfig holds settings for the extract stage.
type ExtractConfig struct {
	// Input is the syllabus document (PDF, DOCX, HTML or plain text).
	Input string `json:"input" yaml:"input" mapstructure:"input"`

	// Output is the destination file.
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// Format overrides the output format inferred from Output's extension.
	Format string `json:"format,omitempty" yaml:"format,omitempty" mapstructure:"format"`

	// Strict fails the run when a module heading appears before any
	// semester or subject instead of silently dropping it.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// FallbackPdftotext retries with the pdftotext binary when the PDF
	// library cannot read the document.
	FallbackPdftotext bool `json:"fallback_pdftotext" yaml:"fallback_pdftotext" mapstructure:"fallback_pdftotext"`

	Rules Rules `json:"rules" yaml:"rules" mapstructure:"rules"`
}

// StoreConfig holds settings for the SQLite syllabus index.
type StoreConfig struct {
	// Dir contains syllabus.db.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// MaxResults is the default search result limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// ServeConfig holds settings for the HTTP API.
type ServeConfig struct {
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Syllabus is the JSON or YAML file served.
	Syllabus string `json:"syllabus" yaml:"syllabus" mapstructure:"syllabus"`

	// APIKey enables bearer-token auth on /api routes when non-empty.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// Config groups all stage configurations.
type Config struct {
	Extract ExtractConfig `json:"extract" yaml:"extract" mapstructure:"extract"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Serve   ServeConfig   `json:"serve" yaml:"serve" mapstructure:"serve"`
}

// DefaultConfig returns the configuration used when no file or flag
// overrides a value.
func DefaultConfig() Config {
	return Config{
		Extract: ExtractConfig{
			Input:             DefaultInput,
			Output:            DefaultOutput,
			FallbackPdftotext: true,
			Rules:             DefaultRules(),
		},
		Store: StoreConfig{
			Dir:        "index",
			MaxResults: 20,
		},
		Serve: ServeConfig{
			Addr:     ":8090",
			Syllabus: DefaultOutput,
		},
	}
}
