// Package sqlite provides a SQLite storage.Repository, handy for local
// dry runs against a throwaway file or :memory: database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/Krishneshvar/subsync-import/internal/storage"
)

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg storage.Config
}

// NewRepository opens the database file named by the DSN.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// sqlite handles write serialization poorly across connections.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, nil
}

// EnsureTable creates the customers table when AutoCreateTable is set.
func (r *Repository) EnsureTable(ctx context.Context) error {
	if !r.cfg.AutoCreateTable {
		return nil
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	customer_id TEXT NOT NULL PRIMARY KEY,
	salutation TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	primary_email TEXT NOT NULL,
	primary_phone_number TEXT NOT NULL,
	customer_address TEXT NOT NULL,
	other_contacts TEXT NOT NULL,
	notes TEXT,
	company_name TEXT NOT NULL,
	display_name TEXT NOT NULL,
	gst_in TEXT NOT NULL,
	currency_code TEXT NOT NULL,
	gst_treatment TEXT NOT NULL,
	tax_preference TEXT NOT NULL,
	exemption_reason TEXT,
	customer_status TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	country_code TEXT NOT NULL
)`, quoteIdent(r.cfg.Table))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqlite create table: %w", err)
	}
	return nil
}

// InsertRows inserts each row independently. The modernc driver exposes
// constraint violations as plain error strings, so duplicates are
// classified by message. Context cancellation is fatal.
func (r *Repository) InsertRows(ctx context.Context, columns []string, rows [][]any) (storage.WriteStats, error) {
	var stats storage.WriteStats

	stmt, err := r.db.PrepareContext(ctx, insertSQL(r.cfg.Table, columns))
	if err != nil {
		return stats, fmt.Errorf("sqlite prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				stats.Duplicates++
				continue
			}
			stats.Failed++
			continue
		}
		stats.Inserted++
	}
	return stats, nil
}

func (r *Repository) Close() error { return r.db.Close() }

func insertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		marks[i] = "?"
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "),
	)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
