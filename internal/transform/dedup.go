package transform

import (
	"github.com/zeebo/xxh3"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// Dedup rejects records whose tax identifier was already seen in the
// current batch. Duplicates are rejected, never merged; the destination
// table's unique key remains the backstop for duplicates across batches.
//
// Dedup keeps per-batch state and must run inside a single goroutine,
// after the parallel cleaning stage.
type Dedup struct {
	seen map[uint64]struct{}
}

func NewDedup() *Dedup {
	return &Dedup{seen: make(map[uint64]struct{})}
}

// Check returns a *Rejection when rec's GSTIN repeats an earlier record.
func (d *Dedup) Check(rec records.Record) error {
	key := xxh3.HashString(rec.Get(schema.FieldGSTIN))
	if _, dup := d.seen[key]; dup {
		return &Rejection{Rule: "dedup", Reason: "duplicate GSTIN in batch"}
	}
	d.seen[key] = struct{}{}
	return nil
}

// Seen reports how many distinct identifiers have passed the check.
func (d *Dedup) Seen() int { return len(d.seen) }
