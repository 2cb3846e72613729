package extract

import (
	"strings"
)

// Field names a contact field that is subject to veto rules.
type Field string

const (
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// VetoRules disqualify a whole sentence. Tokens are compared against the
// lower-cased whitespace-split sentence; phrases against the lower-cased
// sentence text.
type VetoRules struct {
	Tokens  []string `yaml:"tokens" json:"tokens"`
	Phrases []string `yaml:"phrases" json:"phrases"`
}

// Rules maps each contact field to its veto rules.
type Rules map[Field]VetoRules

// DefaultRules returns the built-in tables. Subscription wording marks
// newsletter addresses; agent and support wording marks numbers that are not
// the customer's own. "call" as a whole token also vetoes sentences such as
// "call me at ...", which is a known quirk kept for compatibility.
func DefaultRules() Rules {
	return Rules{
		FieldEmail: {
			Tokens: []string{"add", "subscribe", "subscribed"},
		},
		FieldPhone: {
			Tokens:  []string{"agent", "call"},
			Phrases: []string{"customer care"},
		},
	}
}

// For returns the rules for f, or empty rules.
func (r Rules) For(f Field) VetoRules {
	if r == nil {
		return VetoRules{}
	}
	return r[f]
}

// Vetoes reports whether sentence contains any disqualifying token or phrase.
func (v VetoRules) Vetoes(sentence string) bool {
	lower := strings.ToLower(sentence)
	if len(v.Tokens) > 0 {
		for _, tok := range strings.Fields(lower) {
			for _, veto := range v.Tokens {
				if tok == veto {
					return true
				}
			}
		}
	}
	for _, phrase := range v.Phrases {
		if phrase != "" && strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// Select scans sentences forward from start (inclusive) and returns the
// matches of p in the first sentence that has any and is not vetoed, joined
// with ", ". A single veto discards that sentence's matches entirely.
func Select(sentences []string, start int, p PatternExtractor, rules VetoRules) (string, bool) {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(sentences); i++ {
		matches := p.Extract(sentences[i])
		if len(matches) == 0 || rules.Vetoes(sentences[i]) {
			continue
		}
		return strings.Join(matches, ", "), true
	}
	return "", false
}
