package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/leadgest/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLLoader handles saved inquiry emails and web-form pages.
type HTMLLoader struct{}

// blockTags are the elements whose text forms a lead text block. Saved
// e-mail threads put most of their content in div and font elements.
var blockTags = map[string]bool{
	"p":          true,
	"div":        true,
	"font":       true,
	"li":         true,
	"td":         true,
	"blockquote": true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
}

func (p *HTMLLoader) Load(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &doctree.Document{
		Title: trimExt(filename, ".html", ".htm"),
	}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	// A block element that contains other block elements is not emitted
	// itself; its loose text is emitted around its children instead, so no
	// text appears twice.
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head", "noscript", "template":
				return
			}
			if blockTags[n.Data] && !hasBlockDescendant(n) {
				doc.Append(textContent(n))
				return
			}
		}

		var loose strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if isBlockish(c) {
				doc.Append(loose.String())
				loose.Reset()
				walk(c)
				continue
			}
			if c.Type == html.TextNode {
				loose.WriteString(c.Data)
			} else if c.Type == html.ElementNode && c.Data == "br" {
				loose.WriteString(" ")
			} else {
				loose.WriteString(textContent(c))
			}
		}
		doc.Append(loose.String())
	}

	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}

	return doc, nil
}

// isBlockish reports whether n is or contains a block element.
func isBlockish(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "script", "style", "head", "noscript", "template":
		return true
	}
	return blockTags[n.Data] || hasBlockDescendant(n)
}

func hasBlockDescendant(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (blockTags[c.Data] || hasBlockDescendant(c)) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style":
				return
			case "br":
				buf.WriteByte(' ')
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
