package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/leadgest/internal/entity"
	"github.com/dgallion1/leadgest/internal/lead"
	"github.com/dgallion1/leadgest/internal/parser"
	"github.com/dgallion1/leadgest/internal/sink"
)

type stubDetector struct{ names []string }

func (s stubDetector) Detect(string) entity.CandidateSet {
	return entity.NewCandidateSet(s.names...)
}

func withStubDetector(t *testing.T, names ...string) {
	t.Helper()
	orig := newDetector
	newDetector = func() lead.CandidateDetector { return stubDetector{names: names} }
	t.Cleanup(func() { newDetector = orig })
}

func runCLI(args ...string) (string, error) {
	var stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_WritesRecord(t *testing.T) {
	withStubDetector(t, "Jane Doe")
	dir := t.TempDir()
	in := writeFile(t, dir, "inquiry.txt", "I am a seller.\n\nMy name is Jane Doe\n\njane@home.net\n\nBeds: 2")
	out := filepath.Join(dir, "lead.json")
	db := filepath.Join(dir, "leads.db")

	logs, err := runCLI("extract", "-f", in, "-o", out, "--db", db)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, logs)
	}
	if !strings.Contains(logs, "lead extracted") {
		t.Errorf("expected summary log on stderr, got %q", logs)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var rec lead.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Type != "Seller" {
		t.Errorf("expected Seller, got %q", rec.Type)
	}
	if rec.Name == nil || *rec.Name != "Jane Doe" {
		t.Errorf("expected name Jane Doe, got %v", rec.Name)
	}
	if rec.Beds == nil || *rec.Beds != "2" {
		t.Errorf("expected beds 2, got %v", rec.Beds)
	}

	store, err := sink.OpenSQLite(db)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer store.Close()
	leads, err := store.List(context.Background(), 10)
	if err != nil || len(leads) != 1 {
		t.Fatalf("expected 1 stored lead, got %d (%v)", len(leads), err)
	}
}

func TestExtract_MissingInputWritesNothing(t *testing.T) {
	withStubDetector(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "lead.json")

	logs, err := runCLI("extract", "-f", filepath.Join(dir, "missing.html"), "-o", out)
	if !errors.Is(err, parser.ErrInputUnavailable) {
		t.Fatalf("expected ErrInputUnavailable, got %v", err)
	}
	if !strings.Contains(logs, "input unavailable") {
		t.Errorf("expected error reported on stderr, got %q", logs)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected no output file, got %v", err)
	}
}

func TestExtract_RequiresFile(t *testing.T) {
	if _, err := runCLI("extract"); err == nil {
		t.Fatal("expected error without -f")
	}
}

func TestExtract_RulesOverride(t *testing.T) {
	withStubDetector(t)
	dir := t.TempDir()
	in := writeFile(t, dir, "inquiry.txt", "Office line 555-999-8888\n\nMobile 555-222-3333")
	rules := writeFile(t, dir, "rules.yaml", "phone:\n  tokens: [office]\n")
	out := filepath.Join(dir, "lead.json")

	if logs, err := runCLI("extract", "-f", in, "-o", out, "--rules", rules); err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, logs)
	}
	data, _ := os.ReadFile(out)
	var rec lead.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Phone == nil || *rec.Phone != "555-222-3333" {
		t.Errorf("expected office line vetoed, got %v", rec.Phone)
	}
}
