package transform

import (
	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase title-cases the address-line, city, state, and country fields.
// A cases.Caser is stateful, so construct one TitleCase per goroutine.
type TitleCase struct {
	fields []string
	caser  cases.Caser
}

func NewTitleCase() TitleCase {
	return TitleCase{
		fields: []string{
			schema.FieldAddressLine,
			schema.FieldCity,
			schema.FieldState,
			schema.FieldCountry,
		},
		caser: cases.Title(language.English),
	}
}

func (TitleCase) Name() string { return "title-case address" }

func (t TitleCase) Clean(rec records.Record) (records.Record, error) {
	out := rec.Clone()
	for _, f := range t.fields {
		if v, ok := out[f]; ok && v != "" {
			out[f] = t.caser.String(v)
		}
	}
	return out, nil
}
