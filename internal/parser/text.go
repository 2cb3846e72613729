package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/leadgest/internal/doctree"
)

// TextLoader handles plain text inquiries. Blank lines separate blocks.
type TextLoader struct{}

func (p *TextLoader) Load(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &doctree.Document{
		Title: trimExt(filename, ".txt"),
	}
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			doc.Append(current.String())
			current.Reset()
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	doc.Append(current.String())

	return doc, nil
}
