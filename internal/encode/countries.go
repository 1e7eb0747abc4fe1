package encode

import "strings"

// DefaultCountryCode is returned for country names outside the lookup
// table. The CRM exports this pipeline handles are Indian-market data.
const DefaultCountryCode = "IN"

// countryCodes maps free-text country names (lowercased) to ISO 3166-1
// alpha-2 codes.
var countryCodes = map[string]string{
	"india":                "IN",
	"united states":        "US",
	"usa":                  "US",
	"united kingdom":       "GB",
	"uk":                   "GB",
	"australia":            "AU",
	"canada":               "CA",
	"singapore":            "SG",
	"united arab emirates": "AE",
	"germany":              "DE",
	"france":               "FR",
	"japan":                "JP",
	"china":                "CN",
	"sri lanka":            "LK",
	"nepal":                "NP",
	"bangladesh":           "BD",
}

// CountryCode resolves a free-text country name to a 2-letter code.
// The lookup is case-insensitive; unknown names resolve to
// DefaultCountryCode, so the function is pure and total.
func CountryCode(name string) string {
	if code, ok := countryCodes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code
	}
	return DefaultCountryCode
}
