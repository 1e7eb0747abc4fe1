// Package mapper translates raw CRM export rows into records keyed by the
// target schema's field names. It is pure projection plus derivation: no
// validation, no value cleaning beyond the trim applied to derived fields.
package mapper

import (
	"strings"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// Mapper holds the header-translation table and the derived-field rules.
// The zero value is not usable; construct with New.
type Mapper struct {
	headerMap map[string]string
}

// New returns a Mapper using the schema's default header map, optionally
// overridden per source column by overrides (source column -> target field).
func New(overrides map[string]string) *Mapper {
	hm := make(map[string]string, len(schema.HeaderMap)+len(overrides))
	for src, dst := range schema.HeaderMap {
		hm[src] = dst
	}
	for src, dst := range overrides {
		if dst != "" {
			hm[src] = dst
		}
	}
	return &Mapper{headerMap: hm}
}

// Map projects raw into a new record keyed by target field names.
//
// Source columns absent from raw are omitted from the result rather than
// set to ""; cleaners decide how to treat absence. The Address Line field
// is derived by joining the billing address fragments with a single space
// and trimming; when both fragments are absent the field is omitted.
func (m *Mapper) Map(raw records.Record) records.Record {
	out := make(records.Record, len(m.headerMap)+1)
	for src, dst := range m.headerMap {
		if v, ok := raw[src]; ok {
			out[dst] = v
		}
	}
	if line, ok := joinAddress(raw); ok {
		out[schema.FieldAddressLine] = line
	}
	return out
}

// joinAddress combines the primary and secondary billing address fragments.
// The second return is false when neither source column exists.
func joinAddress(raw records.Record) (string, bool) {
	a, okA := raw[schema.SourceBillingAddress]
	b, okB := raw[schema.SourceBillingStreet2]
	if !okA && !okB {
		return "", false
	}
	return strings.TrimSpace(a + " " + b), true
}
