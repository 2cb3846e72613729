package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/leadgest/internal/lead"
)

// DefaultOutputPath is where the CLI writes when no path is given.
const DefaultOutputPath = "output.json"

// File writes a record as 4-space indented JSON, replacing the file
// atomically so a failed write never leaves a partial record behind.
type File struct {
	Path string
}

func NewFile(path string) *File {
	if path == "" {
		path = DefaultOutputPath
	}
	return &File{Path: path}
}

func (f *File) Write(ctx context.Context, source string, rec lead.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.Path)
	tmp, err := os.CreateTemp(dir, ".leadgest-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		return fmt.Errorf("rename to %s: %w", f.Path, err)
	}
	return nil
}
