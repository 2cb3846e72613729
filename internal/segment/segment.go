// Package segment splits inquiry text into sentences. Two views exist: a
// grammar-aware one for NLP tagging and a coarse one for positional scans.
package segment

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// Coarse splits text on the literal ". " separator. Nothing is dropped or
// trimmed, so joining the result with ". " restores the input.
func Coarse(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, ". ")
}

// Grammar splits text using prose's sentence segmenter. If the NLP document
// cannot be built the punctuation splitter is used instead.
func Grammar(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return Punctuation(text)
	}

	var out []string
	for _, s := range doc.Sentences() {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return Punctuation(text)
	}
	return out
}

// Punctuation does basic sentence splitting on ., ! and ? followed by a space.
func Punctuation(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
