package model

import (
	"testing"
	"time"
)

func TestNewLineItem_Total(t *testing.T) {
	it := NewLineItem("pear", 1, 200, 3)
	if it.LineTotal != 600 {
		t.Fatalf("line total=%v want=600", it.LineTotal)
	}
}

func TestKey_DistinguishesEveryField(t *testing.T) {
	base := FlatRow{
		OrderDate:   time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		CustomerID:  1,
		ProductName: "apple",
		MonthNumber: 1,
		UnitPrice:   100,
		Quantity:    2,
		LineTotal:   200,
	}
	variants := []func(r *FlatRow){
		func(r *FlatRow) { r.OrderDate = r.OrderDate.AddDate(0, 0, 1) },
		func(r *FlatRow) { r.CustomerID++ },
		func(r *FlatRow) { r.ProductName = "apple#1" },
		func(r *FlatRow) { r.MonthNumber++ },
		func(r *FlatRow) { r.UnitPrice += 0.5 },
		func(r *FlatRow) { r.Quantity++ },
		func(r *FlatRow) { r.LineTotal += 0.5 },
	}
	seen := map[string]bool{base.Key(): true}
	for i, mutate := range variants {
		r := base
		mutate(&r)
		if seen[r.Key()] {
			t.Fatalf("variant %d collides: %s", i, r.Key())
		}
		seen[r.Key()] = true
	}
}

func TestRecord(t *testing.T) {
	r := FlatRow{
		OrderDate:   time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC),
		CustomerID:  42,
		ProductName: "pear",
		MonthNumber: 1,
		UnitPrice:   200.25,
		Quantity:    3,
		LineTotal:   600.75,
	}
	want := []string{"2023-01-05", "42", "pear", "1", "200.25", "3", "600.75"}
	got := r.Record()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cell %d: got %q want %q", i, got[i], want[i])
		}
	}
	if len(got) != len(Columns()) {
		t.Fatalf("record width %d != %d columns", len(got), len(Columns()))
	}
}
