package transform

import (
	"math/rand/v2"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// ZipNormalizer strips non-digits from the postal code. Only 4- and
// 6-digit results are kept; anything else is discarded and replaced by a
// uniformly-random 6-digit placeholder.
type ZipNormalizer struct {
	Rand *rand.Rand
}

func (ZipNormalizer) Name() string { return "normalize zip" }

func (z ZipNormalizer) Clean(rec records.Record) (records.Record, error) {
	out := rec.Clone()
	digits := keepDigits(rec.Get(schema.FieldZipCode))
	if len(digits) != 4 && len(digits) != 6 {
		digits = randDigits(z.Rand, 6)
	}
	out[schema.FieldZipCode] = digits
	return out, nil
}
