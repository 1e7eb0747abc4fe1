// Package schema fixes the target contract for the customer import: the
// canonical field names produced by the mapper/cleaners, the required-field
// set enforced by the validator, and the positional column orders used by
// the database insert and the delimited export.
package schema

// Canonical target field names. Cleaners read and write these keys only.
const (
	FieldCreatedTime  = "Created Time"
	FieldDisplayName  = "Display Name"
	FieldCompanyName  = "Company Name"
	FieldSalutation   = "Salutation"
	FieldFirstName    = "First Name"
	FieldLastName     = "Last Name"
	FieldPhone        = "Phone"
	FieldEmail        = "Email"
	FieldCurrencyCode = "Currency Code"
	FieldStatus       = "Status"
	FieldAddressLine  = "Address Line"
	FieldCity         = "City"
	FieldState        = "State"
	FieldCountry      = "Country"
	FieldZipCode      = "Zip Code"
	FieldGSTTreatment = "GST Treatment"
	FieldGSTIN        = "GSTIN"
	FieldTaxable      = "Taxable"
)

// Fields is the canonical output order for normalized records. Every field
// listed here is required: a record missing any of them after cleaning is
// dropped by the validator.
var Fields = []string{
	FieldCreatedTime,
	FieldDisplayName,
	FieldCompanyName,
	FieldSalutation,
	FieldFirstName,
	FieldLastName,
	FieldPhone,
	FieldEmail,
	FieldCurrencyCode,
	FieldStatus,
	FieldAddressLine,
	FieldCity,
	FieldState,
	FieldCountry,
	FieldZipCode,
	FieldGSTTreatment,
	FieldGSTIN,
	FieldTaxable,
}

// HeaderMap translates the CRM export's column names to canonical field
// names. Columns mapping to themselves are listed so the mapper has one
// source of truth for which columns it consumes.
var HeaderMap = map[string]string{
	"Created Time":                      FieldCreatedTime,
	"Display Name":                      FieldDisplayName,
	"Company Name":                      FieldCompanyName,
	"Salutation":                        FieldSalutation,
	"First Name":                        FieldFirstName,
	"Last Name":                         FieldLastName,
	"Phone":                             FieldPhone,
	"EmailID":                           FieldEmail,
	"Currency Code":                     FieldCurrencyCode,
	"Status":                            FieldStatus,
	"Billing City":                      FieldCity,
	"Billing State":                     FieldState,
	"Billing Country":                   FieldCountry,
	"Billing Code":                      FieldZipCode,
	"GST Treatment":                     FieldGSTTreatment,
	"GST Identification Number (GSTIN)": FieldGSTIN,
	"Taxable":                           FieldTaxable,
}

// Source columns joined into the derived Address Line field.
const (
	SourceBillingAddress = "Billing Address"
	SourceBillingStreet2 = "Billing Street2"
)

// InsertColumns is the destination table's column contract, order-sensitive.
// It is the positional layout of an encode.ImportRow.
var InsertColumns = []string{
	"customer_id",
	"salutation",
	"first_name",
	"last_name",
	"primary_email",
	"primary_phone_number",
	"customer_address",
	"other_contacts",
	"notes",
	"company_name",
	"display_name",
	"gst_in",
	"currency_code",
	"gst_treatment",
	"tax_preference",
	"exemption_reason",
	"customer_status",
	"created_at",
	"updated_at",
	"country_code",
}

// ExportColumns is the delimited-export variant of the insert contract:
// the same order minus the database-only columns (identifier, timestamps,
// country code).
var ExportColumns = []string{
	"salutation",
	"first_name",
	"last_name",
	"primary_email",
	"primary_phone_number",
	"customer_address",
	"other_contacts",
	"notes",
	"company_name",
	"display_name",
	"gst_in",
	"currency_code",
	"gst_treatment",
	"tax_preference",
	"exemption_reason",
	"customer_status",
}

// Required reports whether field belongs to the required set.
func Required(field string) bool {
	_, ok := requiredSet[field]
	return ok
}

var requiredSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Fields))
	for _, f := range Fields {
		m[f] = struct{}{}
	}
	return m
}()
