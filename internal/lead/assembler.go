// Package lead assembles lead records from inquiry documents.
package lead

import (
	"log/slog"

	"github.com/dgallion1/leadgest/internal/doctree"
	"github.com/dgallion1/leadgest/internal/entity"
	"github.com/dgallion1/leadgest/internal/extract"
)

// CandidateDetector builds the person-name candidate set for one document.
type CandidateDetector interface {
	Detect(text string) entity.CandidateSet
}

// Assembler runs the extraction pipeline for one document at a time. It
// holds no per-document state, so one Assembler may serve many goroutines.
type Assembler struct {
	detector CandidateDetector
	rules    extract.Rules
	log      *slog.Logger
}

// NewAssembler wires a detector and veto rules. Nil rules mean the defaults.
func NewAssembler(detector CandidateDetector, rules extract.Rules, log *slog.Logger) *Assembler {
	if rules == nil {
		rules = extract.DefaultRules()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{detector: detector, rules: rules, log: log}
}

// Assemble extracts the lead record from doc. A document without text yields
// an all-null record with the default type.
func (a *Assembler) Assemble(doc *doctree.Document) Record {
	if doc == nil || doc.IsEmpty() {
		a.log.Debug("empty document, nothing to extract")
		return Empty()
	}
	text := doc.Text()
	sentences := doc.Sentences()
	candidates := a.detector.Detect(text)
	a.log.Debug("name candidates", "title", doc.Title, "names", candidates.Names(), "sentences", len(sentences))
	return Assemble(text, sentences, candidates, a.rules)
}

// Assemble is the pure core: given the full text, its coarse sentences and a
// name validator it always returns the same record.
//
// Customers usually state their name before their own contact details, so
// contact selection starts at the sentence holding the confirmed name. With
// no confirmed name the whole sentence sequence is scanned.
func Assemble(text string, sentences []string, names extract.EntityValidator, rules extract.Rules) Record {
	rec := Empty()
	rec.Type = extract.Classify(text)

	start := 0
	finder := extract.NewValidatedName(names)
	for i, s := range sentences {
		if name, ok := finder.Find(s); ok {
			rec.Name = &name
			start = i
			break
		}
	}

	rec.Email = optional(extract.Select(sentences, start, extract.Email, rules.For(extract.FieldEmail)))
	rec.Phone = optional(extract.Select(sentences, start, extract.Phone, rules.For(extract.FieldPhone)))

	rec.Address = optional(extract.First(extract.Address, text))
	rec.Beds = optional(extract.First(extract.Beds, text))
	rec.Baths = optional(extract.First(extract.Baths, text))
	return rec
}
