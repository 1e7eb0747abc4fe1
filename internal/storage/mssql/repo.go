// Package mssql provides the SQL Server-backed storage.Repository.
package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mssqldb "github.com/microsoft/go-mssqldb"

	"github.com/Krishneshvar/subsync-import/internal/storage"
)

func init() {
	storage.Register("mssql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a SQL Server implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg storage.Config
}

// NewRepository opens a connection pool and verifies connectivity.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	db, err := sql.Open("sqlserver", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mssql open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mssql ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, nil
}

// EnsureTable creates the customers table when AutoCreateTable is set.
func (r *Repository) EnsureTable(ctx context.Context) error {
	if !r.cfg.AutoCreateTable {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, ensureTableSQL(r.cfg.Table)); err != nil {
		return fmt.Errorf("mssql create table: %w", err)
	}
	return nil
}

// ensureTableSQL builds the guarded CREATE TABLE statement. The table
// name appears twice, as an N'...' literal for OBJECT_ID and as a
// bracket-quoted identifier, and each position needs its own escaping.
func ensureTableSQL(table string) string {
	return fmt.Sprintf(`IF OBJECT_ID(N'%s', N'U') IS NULL
CREATE TABLE %s (
	customer_id NVARCHAR(15) NOT NULL PRIMARY KEY,
	salutation NVARCHAR(8) NOT NULL,
	first_name NVARCHAR(255) NOT NULL,
	last_name NVARCHAR(255) NOT NULL,
	primary_email NVARCHAR(255) NOT NULL,
	primary_phone_number NVARCHAR(32) NOT NULL,
	customer_address NVARCHAR(MAX) NOT NULL,
	other_contacts NVARCHAR(MAX) NOT NULL,
	notes NVARCHAR(MAX),
	company_name NVARCHAR(255) NOT NULL,
	display_name NVARCHAR(255) NOT NULL,
	gst_in NVARCHAR(15) NOT NULL,
	currency_code NCHAR(3) NOT NULL,
	gst_treatment NVARCHAR(16) NOT NULL,
	tax_preference NVARCHAR(16) NOT NULL,
	exemption_reason NVARCHAR(255),
	customer_status NVARCHAR(16) NOT NULL,
	created_at DATETIME2 NOT NULL,
	updated_at DATETIME2 NOT NULL,
	country_code NCHAR(2) NOT NULL
)`, strings.ReplaceAll(table, "'", "''"), quoteIdent(table))
}

// InsertRows inserts each row independently. Error numbers 2627 (key
// constraint) and 2601 (unique index) count as duplicates, any other
// per-row fault counts as failed; neither stops the loop. Context
// cancellation is fatal.
func (r *Repository) InsertRows(ctx context.Context, columns []string, rows [][]any) (storage.WriteStats, error) {
	var stats storage.WriteStats

	stmt, err := r.db.PrepareContext(ctx, insertSQL(r.cfg.Table, columns))
	if err != nil {
		return stats, fmt.Errorf("mssql prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			var sqlErr mssqldb.Error
			if errors.As(err, &sqlErr) && (sqlErr.Number == 2627 || sqlErr.Number == 2601) {
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
		marks[i] = fmt.Sprintf("@p%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "),
	)
}

func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}
