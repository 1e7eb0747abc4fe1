package transform

import (
	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// Validate enforces the target schema's required-field contract after all
// cleaning and generation has run. An empty string counts as absent.
// The outcome is a single accept/reject per record; callers aggregate the
// counts, no per-field reason is distinguished.
func Validate(rec records.Record) error {
	for _, f := range schema.Fields {
		if rec.Get(f) == "" {
			return &Rejection{Rule: "required fields", Reason: "missing " + f}
		}
	}
	return nil
}

// Project subsets rec to the target schema's fields, dropping anything the
// mapper or cleaners carried that the destination does not take. Pure and
// total; all rejection happens before projection.
func Project(rec records.Record) records.Record {
	out := make(records.Record, len(schema.Fields))
	for _, f := range schema.Fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

// ProjectValues returns rec's required fields in canonical order, for the
// delimited export and for tests that care about positional layout.
func ProjectValues(rec records.Record) []string {
	out := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		out[i] = rec.Get(f)
	}
	return out
}
