// Package storage contains storage-agnostic contracts for the import's
// write stage, plus the factory that backends register themselves with.
//
// Backends live in subpackages (mysql, postgres, mssql, sqlite, csvfile)
// and are wired in by blank-importing storage/all. The write contract is
// deliberately per-row: each surviving record is one independent insert,
// so a duplicate-key failure on one record never rolls back or aborts
// records already committed.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config carries everything a backend needs to construct a repository.
// Database sinks use DSN/Table; the delimited-export sink uses Path/Comma.
type Config struct {
	Kind            string
	DSN             string
	Table           string
	AutoCreateTable bool
	Path            string
	Comma           rune
}

// WriteStats reports the outcome of a set of row writes. Duplicates are
// unique-key conflicts; Failed counts any other per-row destination fault.
// Both are drop-and-count outcomes, never fatal to the batch.
type WriteStats struct {
	Inserted   int64
	Duplicates int64
	Failed     int64
}

// Add accumulates other into s.
func (s *WriteStats) Add(other WriteStats) {
	s.Inserted += other.Inserted
	s.Duplicates += other.Duplicates
	s.Failed += other.Failed
}

// Repository is the minimal sink interface used by the write stage.
type Repository interface {
	// EnsureTable creates the destination table when the configuration
	// asks for it; otherwise it is a no-op.
	EnsureTable(ctx context.Context) error

	// InsertRows writes rows (values aligned to columns) one insert per
	// row, classifying per-row failures into WriteStats. It returns a
	// non-nil error only for faults with no per-row recovery, e.g. a lost
	// connection.
	InsertRows(ctx context.Context, columns []string, rows [][]any) (WriteStats, error)

	Close() error
}

// Factory constructs a Repository for a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a backend factory under kind. Backends call Register
// from init; registering the same kind twice panics.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := factories[kind]; dup {
		panic("storage: duplicate backend " + kind)
	}
	factories[kind] = f
}

// New constructs the repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return f(ctx, cfg)
}

// Kinds lists the registered backend kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
