package prompush

import (
	"testing"

	"github.com/Krishneshvar/subsync-import/internal/metrics"
)

func TestNewBackend_RequiresURL(t *testing.T) {
	if _, err := NewBackend("job", ""); err == nil {
		t.Fatalf("empty gateway URL accepted")
	}
}

// gathered returns the metric family names currently in the backend's
// registry.
func gathered(t *testing.T, b *Backend) map[string]bool {
	t.Helper()
	fams, err := b.reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range fams {
		names[f.GetName()] = true
	}
	return names
}

func TestBackend_RecordsKnownMetrics(t *testing.T) {
	b, err := NewBackend("job", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}

	b.IncCounter("subsync_import_stage_total", 1, metrics.Labels{"stage": "read", "status": "success"})
	b.IncCounter("subsync_import_records_total", 5, metrics.Labels{"kind": "inserted"})
	b.IncCounter("subsync_import_batches_total", 2, nil)
	b.ObserveDuration("subsync_import_stage_duration_seconds", 0.25, metrics.Labels{"stage": "read", "status": "success"})

	names := gathered(t, b)
	for _, want := range []string{
		"subsync_import_stage_total",
		"subsync_import_records_total",
		"subsync_import_batches_total",
		"subsync_import_stage_duration_seconds",
	} {
		if !names[want] {
			t.Fatalf("metric %q not gathered; got %v", want, names)
		}
	}
}

func TestBackend_IgnoresUnknownNames(t *testing.T) {
	b, err := NewBackend("job", "http://localhost:9091")
	if err != nil {
		t.Fatalf("NewBackend: %v", err)
	}
	// Must not panic or register anything new.
	b.IncCounter("something_else_total", 1, nil)
	b.ObserveDuration("something_else_seconds", 1, nil)
}
