package transform

import (
	"math/rand/v2"
	"strings"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// PhoneNormalizer strips every non-digit character from the phone field.
// An empty result is replaced by a uniformly-random 10-digit placeholder.
// There is no uniqueness check between generated numbers, within or across
// runs; the placeholder only satisfies the required-field contract.
// Pre-existing digits pass through at whatever length they have.
type PhoneNormalizer struct {
	Rand *rand.Rand
}

func (PhoneNormalizer) Name() string { return "normalize phone" }

func (p PhoneNormalizer) Clean(rec records.Record) (records.Record, error) {
	out := rec.Clone()
	digits := keepDigits(rec.Get(schema.FieldPhone))
	if digits == "" {
		digits = randDigits(p.Rand, 10)
	}
	out[schema.FieldPhone] = digits
	return out, nil
}

// keepDigits removes everything outside '0'..'9'.
func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
