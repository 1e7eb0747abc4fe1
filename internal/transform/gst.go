package transform

import (
	"math/rand/v2"
	"strings"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// GSTTreatments is the allowed value set for the GST-treatment field.
var GSTTreatments = []string{"iGST", "CGST & SGST", "No GST", "Zero Tax", "SEZ"}

// Tax-preference labels produced by TaxableMapper.
const (
	TaxPreferenceTaxable = "Taxable"
	TaxPreferenceExempt  = "Tax Exempt"
)

// TreatmentAssigner overwrites the GST-treatment field with a value chosen
// uniformly at random from GSTTreatments.
//
// This is a placeholder-data generator, not a business rule: the source
// export carries no usable treatment signal, and the destination schema
// requires one. The random assignment reproduces the upstream behavior.
type TreatmentAssigner struct {
	Rand *rand.Rand
}

func (TreatmentAssigner) Name() string { return "assign gst treatment" }

func (a TreatmentAssigner) Clean(rec records.Record) (records.Record, error) {
	out := rec.Clone()
	out[schema.FieldGSTTreatment] = GSTTreatments[a.Rand.IntN(len(GSTTreatments))]
	return out, nil
}

// TaxableMapper maps the taxability flag to its label: truthy values
// become "Taxable", everything else "Tax Exempt".
type TaxableMapper struct{}

func (TaxableMapper) Name() string { return "map taxable" }

func (TaxableMapper) Clean(rec records.Record) (records.Record, error) {
	out := rec.Clone()
	v := strings.ToLower(strings.TrimSpace(rec.Get(schema.FieldTaxable)))
	if v == "true" || v == "taxable" {
		out[schema.FieldTaxable] = TaxPreferenceTaxable
	} else {
		out[schema.FieldTaxable] = TaxPreferenceExempt
	}
	return out, nil
}
