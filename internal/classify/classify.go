// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns study-material files to syllabus subjects by
// matching filename tokens against keywords drawn from subject titles and
// module topics.
package classify

import (
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/pdiddy/syllabus-engine/pkg/types"
)

// General is returned when no subject scores above zero.
var General = Result{Code: "GEN", Name: "General"}

// Result names the subject a file belongs to.
type Result struct {
	Code  string `json:"code" yaml:"code"`
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
}

// stopwords are common topic words that carry no subject signal.
var stopwords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "its": true,
	"from": true, "into": true, "their": true, "using": true, "based": true,
	"introduction": true, "module": true,
}

type subjectKeywords struct {
	code     string
	name     string
	keywords map[string]bool
	order    []string
}

func (s *subjectKeywords) add(words ...string) {
	for _, w := range words {
		if w == "" || s.keywords[w] {
			continue
		}
		s.keywords[w] = true
		s.order = append(s.order, w)
	}
}

// Classifier scores filenames against a fixed syllabus. It is safe for
// concurrent use.
type Classifier struct {
	subjects []*subjectKeywords

	mu    sync.Mutex
	cache map[string]Result
}

// New builds keyword sets for every subject in syl. Subjects that share a
// code across semesters are merged under the first one seen.
func New(syl *types.Syllabus) *Classifier {
	c := &Classifier{cache: make(map[string]Result)}
	byCode := make(map[string]*subjectKeywords)

	for _, sub := range syl.Subjects() {
		code := sub.Code()
		if code == "" {
			continue
		}
		sk, ok := byCode[code]
		if !ok {
			name := sub.Title()
			if name == "" {
				name = General.Name
			}
			sk = &subjectKeywords{code: code, name: name, keywords: make(map[string]bool)}
			byCode[code] = sk
			c.subjects = append(c.subjects, sk)
		}
		sk.add(titleWords(sub.Title())...)
		for _, m := range sub.Modules {
			sk.add(topicWords(m.Topic)...)
		}
	}
	return c
}

// Keywords returns the keyword set for code in insertion order.
func (c *Classifier) Keywords(code string) []string {
	for _, sk := range c.subjects {
		if sk.code == code {
			return append([]string(nil), sk.order...)
		}
	}
	return nil
}

// Classify returns the best-matching subject for filename. Only the base
// name without its extension is considered.
func (c *Classifier) Classify(filename string) Result {
	base := strings.ToLower(filepath.Base(filename))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return General
	}

	c.mu.Lock()
	if r, ok := c.cache[name]; ok {
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	r := c.score(filenameTokens(name))

	c.mu.Lock()
	c.cache[name] = r
	c.mu.Unlock()
	return r
}

func (c *Classifier) score(tokens []string) Result {
	best := General
	for _, sk := range c.subjects {
		score := 0
		for _, tok := range tokens {
			if sk.keywords[tok] {
				score += 2
				continue
			}
			for _, kw := range sk.order {
				if strings.Contains(kw, tok) || strings.Contains(tok, kw) {
					score++
					break
				}
			}
		}
		if score > best.Score {
			best = Result{Code: sk.code, Name: sk.name, Score: score}
		}
	}
	return best
}

// filenameTokens splits a lower-cased name on dashes, underscores and
// whitespace, keeping distinct tokens longer than one character.
func filenameTokens(name string) []string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	seen := make(map[string]bool, len(fields))
	var out []string
	for _, f := range fields {
		if len(f) < 2 || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// titleWords returns the lower-cased title words, each whole word and its
// dash-separated parts, plus the word with a trailing roman "-i" or "-ii"
// removed. Single letters are dropped since they partially match almost
// any token.
func titleWords(title string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if len(w) < 2 {
			continue
		}
		out = append(out, w)
		if strings.Contains(w, "-") {
			for _, part := range strings.Split(w, "-") {
				if len(part) > 1 {
					out = append(out, part)
				}
			}
		}
		for _, suffix := range []string{"-ii", "-i"} {
			if stem, ok := strings.CutSuffix(w, suffix); ok && stem != "" {
				out = append(out, stem)
				break
			}
		}
	}
	return out
}

// topicWords returns lower-cased topic words longer than two characters
// with surrounding punctuation removed, skipping stopwords.
func topicWords(topic string) []string {
	fields := strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	var out []string
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len([]rune(w)) <= 2 || stopwords[w] {
			continue
		}
		out = append(out, w)
	}
	return out
}
