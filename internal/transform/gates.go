package transform

import (
	"strings"

	"github.com/Krishneshvar/subsync-import/internal/records"
)

// RequireField trims the configured field and rejects the record when the
// trimmed value is empty or the field is absent. Rejecting here rather
// than at the validator short-circuits the remaining cleaners; the
// validator would catch the record anyway.
type RequireField struct {
	Field string
}

func (g RequireField) Name() string { return "require " + g.Field }

func (g RequireField) Clean(rec records.Record) (records.Record, error) {
	v := strings.TrimSpace(rec.Get(g.Field))
	if v == "" {
		return nil, &Rejection{Rule: g.Name(), Reason: "empty after trim"}
	}
	out := rec.Clone()
	out[g.Field] = v
	return out, nil
}
