// Package sink persists extracted lead records.
package sink

import (
	"context"
	"errors"

	"github.com/dgallion1/leadgest/internal/lead"
)

// Sink stores one record. source identifies the document it came from.
type Sink interface {
	Write(ctx context.Context, source string, rec lead.Record) error
}

// Multi writes every record to all of its sinks. A failing sink does not
// stop the others; their errors are joined.
type Multi []Sink

func (m Multi) Write(ctx context.Context, source string, rec lead.Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(ctx, source, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every record.
type Discard struct{}

func (Discard) Write(context.Context, string, lead.Record) error { return nil }
