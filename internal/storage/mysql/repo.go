// Package mysql provides the MySQL-backed storage.Repository, the
// destination the subsync application itself runs on. Rows are inserted
// one statement each so a duplicate key on one customer never disturbs
// the rest of the batch.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/Krishneshvar/subsync-import/internal/storage"
)

// mysqlDupKey is the server error number for ER_DUP_ENTRY.
const mysqlDupKey = 1062

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a MySQL implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg storage.Config
}

// NewRepository opens a connection pool and verifies connectivity.
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, nil
}

// EnsureTable creates the customers table when AutoCreateTable is set.
func (r *Repository) EnsureTable(ctx context.Context) error {
	if !r.cfg.AutoCreateTable {
		return nil
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	customer_id VARCHAR(15) NOT NULL,
	salutation VARCHAR(8) NOT NULL,
	first_name VARCHAR(255) NOT NULL,
	last_name VARCHAR(255) NOT NULL,
	primary_email VARCHAR(255) NOT NULL,
	primary_phone_number VARCHAR(32) NOT NULL,
	customer_address JSON NOT NULL,
	other_contacts JSON NOT NULL,
	notes TEXT,
	company_name VARCHAR(255) NOT NULL,
	display_name VARCHAR(255) NOT NULL,
	gst_in VARCHAR(15) NOT NULL,
	currency_code VARCHAR(3) NOT NULL,
	gst_treatment VARCHAR(16) NOT NULL,
	tax_preference VARCHAR(16) NOT NULL,
	exemption_reason VARCHAR(255),
	customer_status VARCHAR(16) NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	country_code CHAR(2) NOT NULL,
	PRIMARY KEY (customer_id)
)`, quoteIdent(r.cfg.Table))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("mysql create table: %w", err)
	}
	return nil
}

// InsertRows inserts each row independently via a prepared statement.
// ER_DUP_ENTRY counts as a duplicate, any other per-row fault counts as
// failed; neither stops the loop. Context cancellation is fatal.
func (r *Repository) InsertRows(ctx context.Context, columns []string, rows [][]any) (storage.WriteStats, error) {
	var stats storage.WriteStats

	stmt, err := r.db.PrepareContext(ctx, insertSQL(r.cfg.Table, columns))
	if err != nil {
		return stats, fmt.Errorf("mysql prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			var myErr *mysql.MySQLError
			if errors.As(err, &myErr) && myErr.Number == mysqlDupKey {
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

// quoteIdent backtick-quotes a MySQL identifier.
func quoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}
