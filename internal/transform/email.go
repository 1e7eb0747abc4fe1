package transform

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// absentMarker is the literal some CRM exports write into empty cells.
const absentMarker = "nan"

// EmailNormalizer synthesizes an address for records without one. The
// synthesized local part is built from the already-split given and family
// names, lowercased with non-alphanumeric runes removed; when even the
// given name is unavailable, a random unknown<dddd> local part is used.
// Existing non-empty values pass through without format validation.
//
// Must run after SplitName so the name fields are in their final form.
type EmailNormalizer struct {
	Rand   *rand.Rand
	Domain string
}

func (EmailNormalizer) Name() string { return "normalize email" }

func (e EmailNormalizer) Clean(rec records.Record) (records.Record, error) {
	email := strings.TrimSpace(rec.Get(schema.FieldEmail))
	if email != "" && email != absentMarker {
		return rec, nil
	}

	first := alnumLower(rec.Get(schema.FieldFirstName))
	last := alnumLower(rec.Get(schema.FieldLastName))

	var local string
	switch {
	case first != "" && last != "":
		local = first + last
	case first != "":
		local = first
	default:
		local = "unknown" + randDigits(e.Rand, 4)
	}

	out := rec.Clone()
	out[schema.FieldEmail] = local + "@" + e.Domain
	return out, nil
}

// alnumLower lowercases s and drops every non-alphanumeric rune.
func alnumLower(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
