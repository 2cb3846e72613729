package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/leadgest/internal/doctree"
)

// CSVLoader handles web-form exports. The first row holds field labels;
// every non-empty cell becomes a "Label: value" block, row by row.
type CSVLoader struct{}

func (p *CSVLoader) Load(r io.Reader, filename string) (*doctree.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &doctree.Document{
		Title: trimExt(filename, ".csv"),
	}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	for _, row := range records[1:] {
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if j < len(headers) && strings.TrimSpace(headers[j]) != "" {
				doc.Append(strings.TrimSpace(headers[j]) + ": " + cell)
			} else {
				doc.Append(cell)
			}
		}
	}

	return doc, nil
}
