// Package records defines the row representation shared by the import
// pipeline stages. A Record is a field-name-keyed map of string values;
// an absent key means the source never carried the field, while an empty
// string means the field was present but blank. Cleaners treat the two
// the same way, the Field Mapper does not.
package records

// Record is one row keyed by field name. Raw records use source column
// names; mapped records use the target schema's field names.
type Record map[string]string

// Get returns the value for field, or "" when absent.
func (r Record) Get(field string) string { return r[field] }

// Has reports whether field is present, regardless of value.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// Clone returns a shallow copy of r. Cleaners operate on copies so that a
// rejected record can be logged in its pre-cleaning form.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
