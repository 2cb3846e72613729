package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgallion1/leadgest/internal/extract"
	"github.com/dgallion1/leadgest/internal/lead"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	source     TEXT NOT NULL,
	type       TEXT NOT NULL,
	name       TEXT,
	email      TEXT,
	phone      TEXT,
	address    TEXT,
	beds       TEXT,
	baths      TEXT,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
`

// SQLite appends every record to a local leads table.
type SQLite struct {
	db *sql.DB
}

// StoredLead is one row of the leads table.
type StoredLead struct {
	ID        int64       `json:"id"`
	Source    string      `json:"source"`
	Record    lead.Record `json:"record"`
	CreatedAt time.Time   `json:"created_at"`
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Write(ctx context.Context, source string, rec lead.Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leads (source, type, name, email, phone, address, beds, baths, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		source, string(rec.Type),
		nullable(rec.Name), nullable(rec.Email), nullable(rec.Phone),
		nullable(rec.Address), nullable(rec.Beds), nullable(rec.Baths),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// List returns the most recent leads, newest first.
func (s *SQLite) List(ctx context.Context, limit int) ([]StoredLead, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, type, name, email, phone, address, beds, baths, created_at
		 FROM leads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var out []StoredLead
	for rows.Next() {
		var (
			sl                                       StoredLead
			typ                                      string
			name, email, phone, address, beds, baths sql.NullString
		)
		if err := rows.Scan(&sl.ID, &sl.Source, &typ, &name, &email, &phone, &address, &beds, &baths, &sl.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		sl.Record = lead.Record{
			Type:    extract.LeadType(typ),
			Name:    fromNull(name),
			Email:   fromNull(email),
			Phone:   fromNull(phone),
			Address: fromNull(address),
			Beds:    fromNull(beds),
			Baths:   fromNull(baths),
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullable(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
