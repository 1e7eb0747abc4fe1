// Package encode maps a validated, projected customer record onto the
// positional tuple the destination insert statement expects: identifier
// generation, JSON encoding of the address and auxiliary contacts,
// country-name resolution, and a final revalidation of the enumerated
// fields before anything reaches storage.
package encode

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

// Enumerated value sets revalidated at encoding time, and the defaults an
// out-of-set value is coerced to. This is deliberately a second gate,
// independent of the cleaners.
var (
	validSalutations = map[string]struct{}{
		"Mr.": {}, "Ms.": {}, "Mrs.": {}, "Dr.": {},
	}
	validTreatments = map[string]struct{}{
		"iGST": {}, "CGST & SGST": {}, "No GST": {}, "Zero Tax": {}, "SEZ": {},
	}
	validStatuses = map[string]struct{}{
		"Active": {}, "Inactive": {},
	}
)

const (
	defaultSalutation      = "Mr."
	defaultTreatment       = "No GST"
	defaultStatus          = "Active"
	defaultTaxPreference   = "Taxable"
	exemptTaxPreference    = "Tax Exempt"
	defaultExemptionReason = "Tax exempt customer"
)

// address is the JSON shape stored in the customer_address column.
type address struct {
	AddressLine string `json:"addressLine"`
	City        string `json:"city"`
	State       string `json:"state"`
	Country     string `json:"country"`
	ZipCode     string `json:"zipCode"`
}

// ImportRow is the final, storage-ready form of one customer record.
// Values() lays it out in the destination table's column order.
type ImportRow struct {
	CustomerID      string
	Salutation      string
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	Address         string // JSON object
	OtherContacts   string // JSON array, always empty for this pipeline
	Notes           string
	CompanyName     string
	DisplayName     string
	GSTIN           string
	CurrencyCode    string
	GSTTreatment    string
	TaxPreference   string
	ExemptionReason string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	CountryCode     string
}

// Values returns the positional tuple for the destination insert,
// aligned with schema.InsertColumns.
func (r *ImportRow) Values() []any {
	return []any{
		r.CustomerID,
		r.Salutation,
		r.FirstName,
		r.LastName,
		r.Email,
		r.Phone,
		r.Address,
		r.OtherContacts,
		r.Notes,
		r.CompanyName,
		r.DisplayName,
		r.GSTIN,
		r.CurrencyCode,
		r.GSTTreatment,
		r.TaxPreference,
		r.ExemptionReason,
		r.Status,
		r.CreatedAt,
		r.UpdatedAt,
		r.CountryCode,
	}
}

// ExportValues returns the delimited-export tuple, aligned with
// schema.ExportColumns: the insert layout minus the database-only columns.
func (r *ImportRow) ExportValues() []string {
	return []string{
		r.Salutation,
		r.FirstName,
		r.LastName,
		r.Email,
		r.Phone,
		r.Address,
		r.OtherContacts,
		r.Notes,
		r.CompanyName,
		r.DisplayName,
		r.GSTIN,
		r.CurrencyCode,
		r.GSTTreatment,
		r.TaxPreference,
		r.ExemptionReason,
		r.Status,
	}
}

// Encoder builds ImportRows. Now is the wall-clock seam used when a
// record's own creation timestamp cannot be parsed; it defaults to
// time.Now in New.
type Encoder struct {
	Now func() time.Time
}

func New() *Encoder { return &Encoder{Now: time.Now} }

// Encode maps a projected record to its ImportRow.
//
// The identifier derives from the record's creation timestamp when it
// parses in an accepted layout, otherwise from the current wall clock;
// created_at follows the same branch and updated_at is always the wall
// clock. Country names resolve through the static ISO table.
func (e *Encoder) Encode(rec records.Record) (*ImportRow, error) {
	now := e.Now()
	created, ok := ParseCreated(rec.Get(schema.FieldCreatedTime))
	if !ok {
		created = now
	}

	addr, err := json.Marshal(address{
		AddressLine: rec.Get(schema.FieldAddressLine),
		City:        rec.Get(schema.FieldCity),
		State:       rec.Get(schema.FieldState),
		Country:     rec.Get(schema.FieldCountry),
		ZipCode:     rec.Get(schema.FieldZipCode),
	})
	if err != nil {
		return nil, fmt.Errorf("encode address: %w", err)
	}
	contacts, err := json.Marshal([]any{})
	if err != nil {
		return nil, fmt.Errorf("encode contacts: %w", err)
	}

	taxPref, reason := taxPreference(rec.Get(schema.FieldTaxable))

	return &ImportRow{
		CustomerID:      CustomerID(created),
		Salutation:      coerceEnum(rec.Get(schema.FieldSalutation), validSalutations, defaultSalutation),
		FirstName:       rec.Get(schema.FieldFirstName),
		LastName:        rec.Get(schema.FieldLastName),
		Email:           rec.Get(schema.FieldEmail),
		Phone:           rec.Get(schema.FieldPhone),
		Address:         string(addr),
		OtherContacts:   string(contacts),
		Notes:           "",
		CompanyName:     rec.Get(schema.FieldCompanyName),
		DisplayName:     rec.Get(schema.FieldDisplayName),
		GSTIN:           rec.Get(schema.FieldGSTIN),
		CurrencyCode:    rec.Get(schema.FieldCurrencyCode),
		GSTTreatment:    coerceEnum(rec.Get(schema.FieldGSTTreatment), validTreatments, defaultTreatment),
		TaxPreference:   taxPref,
		ExemptionReason: reason,
		Status:          coerceEnum(rec.Get(schema.FieldStatus), validStatuses, defaultStatus),
		CreatedAt:       created,
		UpdatedAt:       now,
		CountryCode:     CountryCode(rec.Get(schema.FieldCountry)),
	}, nil
}

// taxPreference maps the cleaned taxability label to the stored preference
// and exemption reason. Out-of-set labels coerce to the taxable default.
func taxPreference(label string) (pref, reason string) {
	if label == exemptTaxPreference {
		return exemptTaxPreference, defaultExemptionReason
	}
	return defaultTaxPreference, ""
}

// coerceEnum returns v when it belongs to set, else def.
func coerceEnum(v string, set map[string]struct{}, def string) string {
	if _, ok := set[v]; ok {
		return v
	}
	return def
}
