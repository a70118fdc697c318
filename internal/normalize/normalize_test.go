package normalize

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ordersynth/internal/flatfile"
	"ordersynth/internal/generate"
	"ordersynth/internal/model"
	"ordersynth/internal/state"
)

var jan5 = time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)

func applePear() model.RawWideRow {
	return model.RawWideRow{
		OrderDate:    "2023-01-05",
		CustomerID:   "42",
		ProductNames: "['apple', 'pear']",
		MonthNumbers: "[1, 1]",
		UnitPrices:   "[100.0, 200.0]",
		Quantities:   "[2, 3]",
		LineTotals:   "[200.0, 600.0]",
	}
}

func TestNormalize_ApplePear(t *testing.T) {
	got, st, err := New(nil).Normalize([]model.RawWideRow{applePear()})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := []model.FlatRow{
		{OrderDate: jan5, CustomerID: 42, ProductName: "apple", MonthNumber: 1, UnitPrice: 100, Quantity: 2, LineTotal: 200},
		{OrderDate: jan5, CustomerID: 42, ProductName: "pear", MonthNumber: 1, UnitPrice: 200, Quantity: 3, LineTotal: 600},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}
	if st != (Stats{SourceRows: 1, Emitted: 2}) {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func flatten(w model.WideRow) []model.FlatRow {
	out := make([]model.FlatRow, 0, len(w.Items))
	for _, it := range w.Items {
		out = append(out, model.FlatRow{
			OrderDate:   w.OrderDate,
			CustomerID:  w.CustomerID,
			ProductName: it.ProductName,
			MonthNumber: it.MonthNumber,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			LineTotal:   it.LineTotal,
		})
	}
	return out
}

func TestNormalize_RoundTripGenerated(t *testing.T) {
	const k = 4
	wide := generate.New(99).Generate(25, k)
	path := filepath.Join(t.TempDir(), "csv_file.csv")
	if err := flatfile.WriteWide(path, wide); err != nil {
		t.Fatalf("WriteWide: %v", err)
	}
	raw, err := flatfile.ReadWide(path)
	if err != nil {
		t.Fatalf("ReadWide: %v", err)
	}
	for i, r := range raw {
		for _, cell := range []string{r.ProductNames, r.MonthNumbers, r.UnitPrices, r.Quantities, r.LineTotals} {
			elems, err := flatfile.SplitList(cell)
			if err != nil {
				t.Fatalf("row %d: %v", i, err)
			}
			if len(elems) != k {
				t.Fatalf("row %d: want %d elements, got %d in %q", i, k, len(elems), cell)
			}
		}
	}

	for i, w := range wide {
		got, st, err := New(nil).Normalize(raw[i : i+1])
		if err != nil {
			t.Fatalf("row %d: %v", i, err)
		}
		if st.DroppedInvalid != 0 {
			t.Fatalf("row %d: unexpected invalid rows: %+v", i, st)
		}
		want := flatten(w)
		// duplicates inside one generated order are legal and get dropped
		if len(got)+st.DroppedDuplicate != k {
			t.Fatalf("row %d: emitted %d + dup %d != %d", i, len(got), st.DroppedDuplicate, k)
		}
		if st.DroppedDuplicate == 0 {
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("row %d (-want +got):\n%s", i, diff)
			}
		}
		for _, r := range got {
			if r.LineTotal != r.UnitPrice*float64(r.Quantity) {
				t.Fatalf("row %d: line total %v != %v*%d", i, r.LineTotal, r.UnitPrice, r.Quantity)
			}
		}
	}
}

func TestNormalize_IdempotentOnSameInstance(t *testing.T) {
	raw := []model.RawWideRow{applePear(), applePear()}
	n := New(nil)
	first, st1, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, st2, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("first call: want 2 rows, got %d", len(first))
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("not idempotent (-first +second):\n%s", diff)
	}
	if st1 != st2 {
		t.Fatalf("stats differ: %+v vs %+v", st1, st2)
	}
}

func TestNormalize_DropsDuplicates(t *testing.T) {
	dup := model.RawWideRow{
		OrderDate:    "2023-01-05",
		CustomerID:   "42",
		ProductNames: "['apple', 'apple']",
		MonthNumbers: "[1, 1]",
		UnitPrices:   "[100, 100]",
		Quantities:   "[2, 2]",
		LineTotals:   "[200, 200]",
	}
	got, st, err := New(nil).Normalize([]model.RawWideRow{applePear(), dup})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d: %+v", len(got), got)
	}
	if st.DroppedDuplicate != 2 {
		t.Fatalf("want 2 duplicates dropped, got %+v", st)
	}
	// first occurrence is kept in input order
	if got[0].ProductName != "apple" || got[1].ProductName != "pear" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestNormalize_DropsInvalidRows(t *testing.T) {
	bad := model.RawWideRow{
		OrderDate:    "2023-01-05",
		CustomerID:   "1",
		ProductNames: "['apple', , 'kiwi', 'fig', 'lime']",
		MonthNumbers: "[1, 2, x, 4, 5]",
		UnitPrices:   "[100, 100, 100, NaN, 100]",
		Quantities:   "[1, 1, 1, 1, ]",
		LineTotals:   "[100, 100, 100, 100, 100]",
	}
	got, st, err := New(nil).Normalize([]model.RawWideRow{bad})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 1 || got[0].ProductName != "apple" {
		t.Fatalf("only apple should survive: %+v", got)
	}
	if st.DroppedInvalid != 4 {
		t.Fatalf("want 4 invalid, got %+v", st)
	}

	emptyName := applePear()
	emptyName.ProductNames = "['', 'pear']"
	got, st, err = New(nil).Normalize([]model.RawWideRow{emptyName})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 2 || got[0].ProductName != "" || st.DroppedInvalid != 0 {
		t.Fatalf("quoted empty name should be kept: rows=%+v stats=%+v", got, st)
	}

	badHeader := applePear()
	badHeader.OrderDate = ""
	got, st, err = New(nil).Normalize([]model.RawWideRow{badHeader})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 0 || st.DroppedInvalid != 2 {
		t.Fatalf("missing date should drop every item: rows=%d stats=%+v", len(got), st)
	}
}

func TestNormalize_LengthMismatchIsError(t *testing.T) {
	r := applePear()
	r.Quantities = "[2]"
	_, _, err := New(nil).Normalize([]model.RawWideRow{applePear(), r})
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("want ErrLengthMismatch, got %v", err)
	}

	r = applePear()
	r.LineTotals = "[200, 600, 900]"
	if _, _, err := New(nil).Normalize([]model.RawWideRow{r}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("longer column: want ErrLengthMismatch, got %v", err)
	}
}

func TestNormalize_MalformedListIsError(t *testing.T) {
	r := applePear()
	r.UnitPrices = "100.0, 200.0"
	if _, _, err := New(nil).Normalize([]model.RawWideRow{r}); !errors.Is(err, flatfile.ErrMalformedList) {
		t.Fatalf("want ErrMalformedList, got %v", err)
	}
}

func TestNormalize_ZeroItems(t *testing.T) {
	wide := generate.New(5).Generate(3, 0)
	path := filepath.Join(t.TempDir(), "csv_file.csv")
	if err := flatfile.WriteWide(path, wide); err != nil {
		t.Fatal(err)
	}
	raw, err := flatfile.ReadWide(path)
	if err != nil {
		t.Fatal(err)
	}
	got, st, err := New(nil).Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 0 || st.SourceRows != 3 || st.Emitted != 0 {
		t.Fatalf("want empty table from 3 rows, got rows=%d stats=%+v", len(got), st)
	}
}

func TestNormalize_PebbleStore(t *testing.T) {
	ps, err := state.NewPebbleStore(t.TempDir())
	if err != nil {
		t.Fatalf("pebble open: %v", err)
	}
	t.Cleanup(func() { _ = ps.Close() })
	// keys left over from an earlier run must not count as duplicates
	if _, err := ps.MarkSeen(flatten(model.WideRow{
		OrderHeader: model.OrderHeader{OrderDate: jan5, CustomerID: 42},
		Items:       []model.LineItem{model.NewLineItem("apple", 1, 100, 2)},
	})[0].Key()); err != nil {
		t.Fatal(err)
	}

	got, st, err := New(ps).Normalize([]model.RawWideRow{applePear(), applePear()})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(got) != 2 || st.DroppedDuplicate != 2 {
		t.Fatalf("rows=%d stats=%+v", len(got), st)
	}
	if ps.Len() != 2 {
		t.Fatalf("store len=%d want=2", ps.Len())
	}
}
