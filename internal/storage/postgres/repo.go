// Package postgres provides the PostgreSQL-backed storage.Repository,
// built on pgx's native pool rather than database/sql.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Krishneshvar/subsync-import/internal/storage"
)

// pgUniqueViolation is SQLSTATE 23505.
const pgUniqueViolation = "23505"

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a PostgreSQL implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  storage.Config
}

// NewRepository opens a pgx pool and verifies connectivity.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, nil
}

// EnsureTable creates the customers table when AutoCreateTable is set.
func (r *Repository) EnsureTable(ctx context.Context) error {
	if !r.cfg.AutoCreateTable {
		return nil
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	customer_id VARCHAR(15) PRIMARY KEY,
	salutation VARCHAR(8) NOT NULL,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL,
	primary_email TEXT NOT NULL,
	primary_phone_number VARCHAR(32) NOT NULL,
	customer_address JSONB NOT NULL,
	other_contacts JSONB NOT NULL,
	notes TEXT,
	company_name TEXT NOT NULL,
	display_name TEXT NOT NULL,
	gst_in VARCHAR(15) NOT NULL,
	currency_code CHAR(3) NOT NULL,
	gst_treatment VARCHAR(16) NOT NULL,
	tax_preference VARCHAR(16) NOT NULL,
	exemption_reason TEXT,
	customer_status VARCHAR(16) NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	country_code CHAR(2) NOT NULL
)`, quoteIdent(r.cfg.Table))
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres create table: %w", err)
	}
	return nil
}

// InsertRows inserts each row independently. SQLSTATE 23505 counts as a
// duplicate, any other per-row fault counts as failed; neither stops the
// loop. Context cancellation is fatal.
func (r *Repository) InsertRows(ctx context.Context, columns []string, rows [][]any) (storage.WriteStats, error) {
	var stats storage.WriteStats
	query := insertSQL(r.cfg.Table, columns)

	for _, row := range rows {
		if _, err := r.pool.Exec(ctx, query, row...); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
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

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func insertSQL(table string, columns []string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = quoteIdent(c)
		marks[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "),
	)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
