package encode

import "time"

// idPrefix is the fixed literal prefix of generated customer identifiers.
const idPrefix = "CID"

// createdLayouts are the timestamp formats accepted for the source's
// "Created Time" column, tried in order.
var createdLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseCreated parses a source creation timestamp. The second return is
// false when the value matches none of the accepted layouts.
func ParseCreated(s string) (time.Time, bool) {
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CustomerID formats t as the CIDYYMMDDHHMMSS identifier.
//
// Two records created in the same second yield the same identifier; this
// pipeline does not disambiguate, the destination's unique key is the only
// backstop.
func CustomerID(t time.Time) string {
	return idPrefix + t.Format("060102150405")
}
