package transform

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/Krishneshvar/subsync-import/internal/records"
	"github.com/Krishneshvar/subsync-import/internal/schema"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

/*
TestRequireField covers the two hard gates: a record missing the field, or
holding only whitespace, is rejected; a padded value survives trimmed.
*/
func TestRequireField(t *testing.T) {
	g := RequireField{Field: schema.FieldFirstName}

	cases := []struct {
		name   string
		rec    records.Record
		reject bool
		want   string
	}{
		{"absent", records.Record{}, true, ""},
		{"whitespace only", records.Record{schema.FieldFirstName: "   "}, true, ""},
		{"padded", records.Record{schema.FieldFirstName: "  Asha "}, false, "Asha"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := g.Clean(tc.rec)
			if tc.reject {
				var rej *Rejection
				if !errors.As(err, &rej) {
					t.Fatalf("err=%v; want *Rejection", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := out.Get(schema.FieldFirstName); got != tc.want {
				t.Fatalf("got %q; want %q", got, tc.want)
			}
		})
	}
}

func TestSplitName(t *testing.T) {
	cases := []struct {
		name      string
		first     string
		last      string
		wantFirst string
		wantLast  string
	}{
		{"single token untouched", "asha", "rao", "Asha", "Rao"},
		{"two tokens no last", "john doe", "", "John", "Doe"},
		{"fragment replaces initial-like last", "john doe", "K.", "John", "Doe"},
		{"fragment replaces short last", "john doe", "ab", "John", "Doe"},
		{"initial fragment replaces last", "john k.", "smith", "John", "K."},
		{"long fragment appends", "john smith", "kumar", "John", "Kumar smith"},
		{"three tokens keep middle in given name", "john michael doe", "", "John michael", "Doe"},
		{"three tokens with initial fragment", "john michael k.", "smith", "John michael", "K."},
		{"already split is stable", "John", "Doe", "John", "Doe"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := records.Record{
				schema.FieldFirstName: tc.first,
				schema.FieldLastName:  tc.last,
			}
			out, err := SplitName{}.Clean(rec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := out.Get(schema.FieldFirstName); got != tc.wantFirst {
				t.Fatalf("first=%q; want %q", got, tc.wantFirst)
			}
			if got := out.Get(schema.FieldLastName); got != tc.wantLast {
				t.Fatalf("last=%q; want %q", got, tc.wantLast)
			}
			// Only the last token moves, so a two-token given name can
			// never keep an internal space; longer names may.
			if len(strings.Fields(tc.first)) == 2 && strings.Contains(out.Get(schema.FieldFirstName), " ") {
				t.Fatalf("first name %q contains a space after split", out.Get(schema.FieldFirstName))
			}
		})
	}
}

func TestPhoneNormalizer(t *testing.T) {
	p := PhoneNormalizer{Rand: testRand()}

	out, err := p.Clean(records.Record{schema.FieldPhone: "+91 (44) 2345-6789"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out.Get(schema.FieldPhone); got != "914423456789" {
		t.Fatalf("got %q; want digits only", got)
	}

	// Empty and digit-free inputs get a 10-digit placeholder.
	for _, in := range []string{"", "n/a", "   "} {
		out, err := p.Clean(records.Record{schema.FieldPhone: in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.Get(schema.FieldPhone)
		if len(got) != 10 || !allDigits(got) {
			t.Fatalf("placeholder for %q = %q; want 10 digits", in, got)
		}
	}
}

func TestEmailNormalizer(t *testing.T) {
	e := EmailNormalizer{Rand: testRand(), Domain: "gmail.com"}

	t.Run("existing address passes through", func(t *testing.T) {
		out, err := e.Clean(records.Record{schema.FieldEmail: "keep@example.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.Get(schema.FieldEmail); got != "keep@example.com" {
			t.Fatalf("got %q", got)
		}
	})

	t.Run("synthesized from names", func(t *testing.T) {
		rec := records.Record{
			schema.FieldFirstName: "John",
			schema.FieldLastName:  "O'Brien",
			schema.FieldEmail:     "",
		}
		out, err := e.Clean(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.Get(schema.FieldEmail); got != "johnobrien@gmail.com" {
			t.Fatalf("got %q; want johnobrien@gmail.com", got)
		}
	})

	t.Run("absent marker treated as empty", func(t *testing.T) {
		rec := records.Record{
			schema.FieldFirstName: "Asha",
			schema.FieldEmail:     "nan",
		}
		out, err := e.Clean(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.Get(schema.FieldEmail); got != "asha@gmail.com" {
			t.Fatalf("got %q; want asha@gmail.com", got)
		}
	})

	t.Run("no names falls back to unknown", func(t *testing.T) {
		out, err := e.Clean(records.Record{schema.FieldEmail: ""})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.Get(schema.FieldEmail)
		if !strings.HasPrefix(got, "unknown") || !strings.HasSuffix(got, "@gmail.com") {
			t.Fatalf("got %q; want unknown<dddd>@gmail.com", got)
		}
		digits := strings.TrimSuffix(strings.TrimPrefix(got, "unknown"), "@gmail.com")
		if len(digits) != 4 || !allDigits(digits) {
			t.Fatalf("local suffix %q; want 4 digits", digits)
		}
	})
}

func TestTitleCase(t *testing.T) {
	tc := NewTitleCase()
	rec := records.Record{
		schema.FieldAddressLine: "12 park street",
		schema.FieldCity:        "chennai",
		schema.FieldState:       "tamil nadu",
		schema.FieldCountry:     "india",
	}
	out, err := tc.Clean(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := records.Record{
		schema.FieldAddressLine: "12 Park Street",
		schema.FieldCity:        "Chennai",
		schema.FieldState:       "Tamil Nadu",
		schema.FieldCountry:     "India",
	}
	for f, w := range want {
		if got := out.Get(f); got != w {
			t.Fatalf("%s=%q; want %q", f, got, w)
		}
	}
}

func TestZipNormalizer(t *testing.T) {
	z := ZipNormalizer{Rand: testRand()}

	cases := []struct {
		in   string
		keep bool
		want string
	}{
		{"600042", true, "600042"},
		{"600 042", true, "600042"},
		{"1234", true, "1234"},
		{"123", false, ""},
		{"12345", false, ""},
		{"", false, ""},
	}
	for _, tc := range cases {
		out, err := z.Clean(records.Record{schema.FieldZipCode: tc.in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := out.Get(schema.FieldZipCode)
		if tc.keep {
			if got != tc.want {
				t.Fatalf("zip %q = %q; want %q", tc.in, got, tc.want)
			}
			continue
		}
		if len(got) != 6 || !allDigits(got) {
			t.Fatalf("zip %q = %q; want 6-digit placeholder", tc.in, got)
		}
	}
}

func TestTreatmentAssigner(t *testing.T) {
	a := TreatmentAssigner{Rand: testRand()}
	valid := map[string]bool{}
	for _, v := range GSTTreatments {
		valid[v] = true
	}
	for i := 0; i < 50; i++ {
		out, err := a.Clean(records.Record{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.Get(schema.FieldGSTTreatment); !valid[got] {
			t.Fatalf("treatment %q not in allowed set", got)
		}
	}
}

func TestTaxableMapper(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"TRUE", TaxPreferenceTaxable},
		{"true", TaxPreferenceTaxable},
		{"false", TaxPreferenceExempt},
		{"", TaxPreferenceExempt},
		{"yes", TaxPreferenceExempt},
		// Idempotence: a second pass leaves the labels alone.
		{TaxPreferenceTaxable, TaxPreferenceTaxable},
		{TaxPreferenceExempt, TaxPreferenceExempt},
	}
	for _, tc := range cases {
		out, err := TaxableMapper{}.Clean(records.Record{schema.FieldTaxable: tc.in})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.Get(schema.FieldTaxable); got != tc.want {
			t.Fatalf("taxable %q = %q; want %q", tc.in, got, tc.want)
		}
	}
}

/*
TestDefaultChain_EndToEnd runs the full chain over a representative dirty
record and checks every deterministic output plus the shape of the
randomized placeholders.
*/
func TestDefaultChain_EndToEnd(t *testing.T) {
	chain := Default(testRand(), "gmail.com")

	rec := records.Record{
		schema.FieldFirstName: "john doe",
		schema.FieldLastName:  "",
		schema.FieldGSTIN:     "33AAACT2727Q1ZW",
		schema.FieldEmail:     "",
		schema.FieldPhone:     "",
		schema.FieldZipCode:   "123",
		schema.FieldCity:      "chennai",
		schema.FieldCountry:   "india",
		schema.FieldTaxable:   "TRUE",
	}

	out, err := chain.Apply(rec)
	if err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}

	if got := out.Get(schema.FieldFirstName); got != "John" {
		t.Fatalf("first=%q; want John", got)
	}
	if got := out.Get(schema.FieldLastName); got != "Doe" {
		t.Fatalf("last=%q; want Doe", got)
	}
	if got := out.Get(schema.FieldEmail); got != "johndoe@gmail.com" {
		t.Fatalf("email=%q; want johndoe@gmail.com", got)
	}
	if got := out.Get(schema.FieldPhone); len(got) != 10 || !allDigits(got) {
		t.Fatalf("phone=%q; want 10-digit placeholder", got)
	}
	if got := out.Get(schema.FieldZipCode); len(got) != 6 || !allDigits(got) {
		t.Fatalf("zip=%q; want 6-digit placeholder", got)
	}
	if got := out.Get(schema.FieldCity); got != "Chennai" {
		t.Fatalf("city=%q; want Chennai", got)
	}
	if got := out.Get(schema.FieldTaxable); got != TaxPreferenceTaxable {
		t.Fatalf("taxable=%q; want %q", got, TaxPreferenceTaxable)
	}
	// The input record must not be mutated.
	if rec.Get(schema.FieldFirstName) != "john doe" {
		t.Fatalf("input record mutated: %v", rec)
	}
}

func TestDefaultChain_RejectsMissingGSTIN(t *testing.T) {
	chain := Default(testRand(), "gmail.com")
	_, err := chain.Apply(records.Record{
		schema.FieldFirstName: "Asha",
		schema.FieldGSTIN:     "  ",
	})
	var rej *Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("err=%v; want *Rejection", err)
	}
	if !strings.Contains(rej.Rule, schema.FieldGSTIN) {
		t.Fatalf("rule=%q; want the GSTIN gate", rej.Rule)
	}
}
