package records

import "testing"

func TestGetAndHas_DistinguishAbsentFromEmpty(t *testing.T) {
	rec := Record{"present": "", "filled": "x"}

	if !rec.Has("present") || rec.Get("present") != "" {
		t.Fatalf("empty-but-present field misreported")
	}
	if rec.Has("absent") {
		t.Fatalf("absent key reported present")
	}
	if rec.Get("absent") != "" {
		t.Fatalf("Get on absent key must return empty string")
	}
	if rec.Get("filled") != "x" {
		t.Fatalf("Get(filled)=%q", rec.Get("filled"))
	}
}

func TestClone_Independent(t *testing.T) {
	rec := Record{"a": "1"}
	cp := rec.Clone()
	cp["a"] = "2"
	cp["b"] = "3"

	if rec["a"] != "1" {
		t.Fatalf("clone mutation leaked into original")
	}
	if _, ok := rec["b"]; ok {
		t.Fatalf("clone insertion leaked into original")
	}
}
