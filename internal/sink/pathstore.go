package sink

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dgallion1/leadgest/internal/lead"
	"github.com/dgallion1/leadgest/internal/pathstore"
)

// NodeWriter is the part of the pathstore client the sink needs.
type NodeWriter interface {
	PutNode(ctx context.Context, key string, req pathstore.NodeRequest) error
}

// Pathstore stores each record as a node under leads/<source-slug>.
// Transient failures come back as *pathstore.RetryableError.
type Pathstore struct {
	client NodeWriter
}

func NewPathstore(client NodeWriter) *Pathstore {
	return &Pathstore{client: client}
}

func (p *Pathstore) Write(ctx context.Context, source string, rec lead.Record) error {
	return p.client.PutNode(ctx, Key(source), pathstore.NodeRequest{
		Value:      rec,
		MergeMode:  "replace",
		MemoryType: "lead",
		Source:     source,
	})
}

// Key is the node path a source document's lead is stored under.
func Key(source string) string {
	base := filepath.Base(source)
	slug := Slugify(strings.TrimSuffix(base, filepath.Ext(base)))
	if slug == "" {
		slug = "untitled"
	}
	return "leads/" + slug
}

var (
	nonSlug  = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a URL/path-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	s = dashRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
