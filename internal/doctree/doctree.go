package doctree

import (
	"strings"

	"github.com/dgallion1/leadgest/internal/segment"
)

// Document is an inquiry flattened into ordered text blocks by a loader.
type Document struct {
	Title  string   // Document title (from metadata or filename)
	Blocks []string // Text blocks in source order
}

// New builds a Document, folding newlines and dropping empty blocks.
func New(title string, blocks []string) *Document {
	doc := &Document{Title: title}
	for _, b := range blocks {
		doc.Append(b)
	}
	return doc
}

// Append adds a block if it has any content after whitespace folding.
func (d *Document) Append(block string) {
	b := foldBlock(block)
	if b == "" {
		return
	}
	d.Blocks = append(d.Blocks, b)
}

// Text returns the full document text. Every block is terminated with a
// period and blocks are separated by a single space, so block boundaries
// survive as sentence boundaries.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, b := range d.Blocks {
		sb.WriteString(b)
		if !strings.HasSuffix(b, ".") {
			sb.WriteByte('.')
		}
		sb.WriteByte(' ')
	}
	return sb.String()
}

// Sentences returns the coarse sentence view: each block split on ". ",
// concatenated in document order.
func (d *Document) Sentences() []string {
	var out []string
	for _, b := range d.Blocks {
		out = append(out, segment.Coarse(b)...)
	}
	return out
}

// IsEmpty reports whether the loader produced no text at all.
func (d *Document) IsEmpty() bool {
	return len(d.Blocks) == 0
}

func foldBlock(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
