// Package csvfile provides a storage.Repository that writes cleaned
// customers to a CSV file instead of a database. Useful when the rows
// are destined for a bulk-import tool rather than a live schema.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/Krishneshvar/subsync-import/internal/storage"
)

const timeLayout = "2006-01-02 15:04:05"

func init() {
	storage.Register("csv", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(cfg)
	})
}

// Repository writes rows to a single CSV file. It is not safe for
// concurrent use; the write stage is already serialized upstream.
type Repository struct {
	f          *os.File
	w          *csv.Writer
	headerDone bool
}

// NewRepository creates (or truncates) the output file.
func NewRepository(cfg storage.Config) (*Repository, error) {
	f, err := os.Create(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("csvfile create: %w", err)
	}
	w := csv.NewWriter(f)
	if cfg.Comma != 0 {
		w.Comma = cfg.Comma
	}
	return &Repository{f: f, w: w}, nil
}

// EnsureTable is a no-op; the header is written lazily on the first
// batch because the column list arrives with the rows.
func (r *Repository) EnsureTable(ctx context.Context) error {
	return nil
}

// InsertRows writes the header on first call, then appends one CSV line
// per row. A CSV file has no key constraint, so every written row
// counts as inserted.
func (r *Repository) InsertRows(ctx context.Context, columns []string, rows [][]any) (storage.WriteStats, error) {
	var stats storage.WriteStats

	if !r.headerDone {
		if err := r.w.Write(columns); err != nil {
			return stats, fmt.Errorf("csvfile header: %w", err)
		}
		r.headerDone = true
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := r.w.Write(stringify(row)); err != nil {
			return stats, fmt.Errorf("csvfile write: %w", err)
		}
		stats.Inserted++
	}
	r.w.Flush()
	return stats, r.w.Error()
}

// Close flushes buffered lines and closes the file.
func (r *Repository) Close() error {
	r.w.Flush()
	if err := r.w.Error(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

func stringify(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case string:
			out[i] = x
		case []byte:
			out[i] = string(x)
		case time.Time:
			out[i] = x.Format(timeLayout)
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}
