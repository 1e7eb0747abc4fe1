// Package transform implements the per-record normalization rules for the
// customer import: field cleaning and placeholder generation, the
// required-field validator, intra-batch duplicate rejection, and the final
// projection onto the target schema.
//
// Every cleaner is a pure function from one record to a new record; a
// record flows through the chain in a fixed order because later rules read
// fields earlier rules produce (the email synthesizer depends on the name
// splitter). Cleaners never share state across records, so independent
// records may be cleaned concurrently with one chain per worker.
package transform

import (
	"fmt"
	"math/rand/v2"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// Rejection marks a record as failing a mandatory rule. It is an expected
// per-row outcome counted by the caller, not a pipeline fault.
type Rejection struct {
	Rule   string // name of the rule that rejected the record
	Reason string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %s", r.Rule, r.Reason)
}

// Cleaner is a single normalization rule. Clean returns the transformed
// record, or a *Rejection error when the record must be dropped.
type Cleaner interface {
	Name() string
	Clean(rec records.Record) (records.Record, error)
}

// Chain applies cleaners in order, short-circuiting on the first rejection.
type Chain []Cleaner

// Apply runs the chain over rec. The input record is never mutated.
func (c Chain) Apply(rec records.Record) (records.Record, error) {
	out := rec
	for _, cl := range c {
		next, err := cl.Clean(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// Default builds the cleaning chain in its mandatory execution order.
// rng supplies all placeholder randomness and must not be shared across
// goroutines; emailDomain is the fixed domain for synthesized addresses.
func Default(rng *rand.Rand, emailDomain string) Chain {
	return Chain{
		RequireField{Field: schema.FieldFirstName},
		RequireField{Field: schema.FieldGSTIN},
		SplitName{},
		PhoneNormalizer{Rand: rng},
		EmailNormalizer{Rand: rng, Domain: emailDomain},
		NewTitleCase(),
		ZipNormalizer{Rand: rng},
		TreatmentAssigner{Rand: rng},
		TaxableMapper{},
	}
}

// randDigits returns n uniformly-random decimal digits.
func randDigits(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0' + byte(r.IntN(10))
	}
	return string(b)
}
