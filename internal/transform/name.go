package transform

import (
	"strings"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// SplitName moves the trailing name token out of the given-name field.
//
// When the given name holds multiple space-separated tokens, its last
// token becomes a family-name fragment: it replaces an existing family
// name when it looks like an initial (length <= 2 or ends with a
// period), and is space-appended otherwise. The given name keeps the
// joined remainder, so a two-token given name never leaves an internal
// space but a longer one may (e.g. "john michael doe" splits as
// "John michael" / "Doe"). Both fields are capitalized afterwards, so a
// record that was already split comes out unchanged.
type SplitName struct{}

func (SplitName) Name() string { return "split name" }

func (SplitName) Clean(rec records.Record) (records.Record, error) {
	first := strings.TrimSpace(rec.Get(schema.FieldFirstName))
	last := strings.TrimSpace(rec.Get(schema.FieldLastName))

	parts := strings.Fields(first)
	if len(parts) > 1 {
		frag := parts[len(parts)-1]
		switch {
		case last == "":
			last = frag
		case len(frag) <= 2 || strings.HasSuffix(frag, "."):
			last = frag
		default:
			last = last + " " + frag
		}
		first = strings.Join(parts[:len(parts)-1], " ")
	}

	out := rec.Clone()
	out[schema.FieldFirstName] = capitalize(first)
	out[schema.FieldLastName] = capitalize(last)
	return out, nil
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	r := []rune(lower)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
