package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/leadgest/internal/entity"
	"github.com/dgallion1/leadgest/internal/extract"
	"github.com/dgallion1/leadgest/internal/lead"
	"github.com/dgallion1/leadgest/internal/parser"
	"github.com/dgallion1/leadgest/internal/sink"
	"github.com/spf13/cobra"
)

// newDetector is replaced in tests.
var newDetector = func() lead.CandidateDetector { return entity.NewDetector() }

type extractOptions struct {
	file      string
	output    string
	rules     string
	db        string
	pdftotext bool
}

func newExtractCmd() *cobra.Command {
	var opts extractOptions
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract one lead record from a document",
		Long: `Extract loads a single inquiry document, extracts its lead record and
writes it as indented JSON. With --db the record is also appended to a
SQLite leads table. Nothing is written when the document cannot be read.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), opts, newLogger(cmd))
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "input document (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", sink.DefaultOutputPath, "output JSON path")
	cmd.Flags().StringVar(&opts.rules, "rules", "", "YAML veto-rule overrides")
	cmd.Flags().StringVar(&opts.db, "db", "", "also append the record to this SQLite database")
	cmd.Flags().BoolVar(&opts.pdftotext, "pdftotext", true, "fall back to pdftotext for PDFs")
	cmd.MarkFlagRequired("file")
	return cmd
}

func runExtract(ctx context.Context, opts extractOptions, log *slog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rules, err := extract.LoadRulesFile(opts.rules)
	if err != nil {
		return err
	}

	doc, err := parser.LoadFile(opts.file, parser.Options{PDFFallbackPdftotext: opts.pdftotext})
	if err != nil {
		return err
	}

	start := time.Now()
	rec := lead.NewAssembler(newDetector(), rules, log).Assemble(doc)
	elapsed := time.Since(start)

	// Sinks run in order and the first failure stops the run, so the JSON
	// file only appears once every other destination has the record.
	var sinks []sink.Sink
	if opts.db != "" {
		db, err := sink.OpenSQLite(opts.db)
		if err != nil {
			return err
		}
		defer db.Close()
		sinks = append(sinks, db)
	}
	sinks = append(sinks, sink.NewFile(opts.output))

	for _, s := range sinks {
		if err := s.Write(ctx, opts.file, rec); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	log.Info("lead extracted",
		"file", opts.file,
		"output", opts.output,
		"type", rec.Type,
		"has_name", rec.Name != nil,
		"has_contact", rec.HasContact(),
		"duration_ms", elapsed.Milliseconds(),
	)
	return nil
}
