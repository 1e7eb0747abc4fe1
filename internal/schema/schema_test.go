package schema

import "testing"

func TestContracts_Consistency(t *testing.T) {
	if len(Fields) != 18 {
		t.Fatalf("required fields=%d; want 18", len(Fields))
	}
	if len(InsertColumns) != 20 {
		t.Fatalf("insert columns=%d; want 20", len(InsertColumns))
	}
	if len(ExportColumns) != 16 {
		t.Fatalf("export columns=%d; want 16", len(ExportColumns))
	}

	// Every export column must also be an insert column.
	ins := map[string]bool{}
	for _, c := range InsertColumns {
		ins[c] = true
	}
	for _, c := range ExportColumns {
		if !ins[c] {
			t.Fatalf("export column %q missing from insert contract", c)
		}
	}

	// Every source column in the header map must land on a required field.
	req := map[string]bool{}
	for _, f := range Fields {
		req[f] = true
	}
	for src, dst := range HeaderMap {
		if !req[dst] {
			t.Fatalf("header %q maps to %q, which is not a required field", src, dst)
		}
	}
}

func TestRequired(t *testing.T) {
	for _, f := range Fields {
		if !Required(f) {
			t.Fatalf("Required(%q)=false", f)
		}
	}
	if Required("Billing Street2") {
		t.Fatalf("source-only column reported required")
	}
}
