package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry_CountersAndTextfile(t *testing.T) {
	r := NewRegistry()
	r.OrdersGenerated.Add(10)
	r.FlatRowsEmitted.Add(19)
	r.DroppedDuplicate.Inc()
	r.ObserveStage("normalize", 0.01)

	if got := testutil.ToFloat64(r.FlatRowsEmitted); got != 19 {
		t.Fatalf("flat rows=%v want=19", got)
	}

	path := filepath.Join(t.TempDir(), "ordersynth.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"ordersynth_orders_generated_total 10",
		"ordersynth_rows_dropped_duplicate_total 1",
		`ordersynth_stage_seconds_count{stage="normalize"} 1`,
	} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("textfile missing %q:\n%s", want, b)
		}
	}
}
