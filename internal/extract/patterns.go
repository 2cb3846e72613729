// Package extract provides the field extractors for lead records: regex
// patterns that propose values, an entity gate for person names, veto rules
// that discard intermediary contact details, and the Buyer/Seller classifier.
//
// Extractors run on raw text so punctuation and case survive; only the
// entity detector sees stop-word-normalized text.
package extract

import (
	"regexp"
)

// PatternExtractor finds every occurrence of one field shape in a text unit.
type PatternExtractor interface {
	Extract(text string) []string
}

// EntityValidator confirms a proposed value independently of the pattern
// that proposed it.
type EntityValidator interface {
	Valid(value string) bool
}

// regexExtractor returns capture group 1 when the pattern has one, the whole
// match otherwise.
type regexExtractor struct {
	regex *regexp.Regexp
}

func (r *regexExtractor) Extract(text string) []string {
	matches := r.regex.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) > 1 {
			out = append(out, m[1])
		} else {
			out = append(out, m[0])
		}
	}
	return out
}

var (
	namePhraseRE = regexp.MustCompile(`(?i)(?:my\s)*\s*name\s*[:,]?\s*(?:is\s)*\s*([a-zA-Z\s]+)`)

	phoneRE = regexp.MustCompile(
		`\d{3}[-.\s]??\d{3}[-.\s]??\d{4}` +
			`|\(\d{3}\)\s*\d{3}[-.\s]??\d{4}` +
			`|\d{5}[-\s]??\d{5}`,
	)

	emailRE = regexp.MustCompile(`[\w.\-]+@\w+\.\w+`)

	// US postal shape: house number, street, city, state code, ZIP.
	addressRE = regexp.MustCompile(`[0-9]{1,5}(?:st|nd|rd|th)? [a-zA-Z\s]+, [a-zA-Z\s]+[,]? [A-Z]{2} [0-9]{4,5}`)

	bedsRE  = regexp.MustCompile(`(?i)bed[s]?\s*[:]?\s*([0-9]+)`)
	bathsRE = regexp.MustCompile(`(?i)bath[s]?\s*[:]?\s*([0-9]+)`)
)

// Field extractors. Each is stateless and safe for concurrent use.
var (
	NamePhrase PatternExtractor = &regexExtractor{regex: namePhraseRE}
	Phone      PatternExtractor = &regexExtractor{regex: phoneRE}
	Email      PatternExtractor = &regexExtractor{regex: emailRE}
	Address    PatternExtractor = &regexExtractor{regex: addressRE}
	Beds       PatternExtractor = &regexExtractor{regex: bedsRE}
	Baths      PatternExtractor = &regexExtractor{regex: bathsRE}
)

// First returns the first match of p in text.
func First(p PatternExtractor, text string) (string, bool) {
	matches := p.Extract(text)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// ValidatedName proposes a name with Pattern and accepts it only if
// Validator confirms the exact string.
type ValidatedName struct {
	Pattern   PatternExtractor
	Validator EntityValidator
}

// NewValidatedName pairs the name phrase pattern with v.
func NewValidatedName(v EntityValidator) ValidatedName {
	return ValidatedName{Pattern: NamePhrase, Validator: v}
}

// Find returns the first proposed name in sentence if it is a confirmed entity.
func (n ValidatedName) Find(sentence string) (string, bool) {
	name, ok := First(n.Pattern, sentence)
	if !ok || n.Validator == nil || !n.Validator.Valid(name) {
		return "", false
	}
	return name, true
}
