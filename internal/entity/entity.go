// Package entity finds person-name candidates in inquiry text using prose's
// part-of-speech tagger and named-entity chunker.
package entity

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"

	"github.com/dgallion1/leadgest/internal/normalize"
	"github.com/dgallion1/leadgest/internal/segment"
)

// PersonLabel is the entity label prose assigns to person names.
const PersonLabel = "PERSON"

// CandidateSet holds entity texts judged to be person names in one document.
// It is built once per document and only read afterwards.
type CandidateSet map[string]struct{}

// NewCandidateSet builds a set from the given names.
func NewCandidateSet(names ...string) CandidateSet {
	s := make(CandidateSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Valid reports whether name exactly matches a candidate.
func (s CandidateSet) Valid(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the candidates sorted, for logging and tests.
func (s CandidateSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Detector runs prose's tagger and entity chunker over a whole document and
// keeps the PERSON entities.
type Detector struct{}

// NewDetector returns a Detector. It holds no state; prose loads its model on
// each document.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns the person-name candidates found in text. Short or
// proper-noun-free text yields an empty set.
func (d *Detector) Detect(text string) CandidateSet {
	set := CandidateSet{}
	cleaned := normalize.StopWords(text)
	// No grammar sentence means nothing to tag; skip loading the model.
	if len(segment.Grammar(cleaned)) == 0 {
		return set
	}

	doc, err := prose.NewDocument(terminate(cleaned), prose.WithSegmentation(false))
	if err != nil {
		return set
	}
	for _, ent := range doc.Entities() {
		if ent.Label == PersonLabel {
			set[ent.Text] = struct{}{}
		}
	}
	return set
}

// terminate ends text with a period. prose only closes an entity when a
// following token falls outside it, so a trailing name would be lost.
func terminate(text string) string {
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?") {
		return text
	}
	return text + " ."
}
