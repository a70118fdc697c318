// Package normalize expands wide order rows, one per order with list-valued
// line item cells, into flat rows, one per line item.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ordersynth/internal/flatfile"
	"ordersynth/internal/model"
	"ordersynth/internal/state"
)

// ErrLengthMismatch is returned when the list cells of one wide row do not
// all have the same number of elements.
var ErrLengthMismatch = errors.New("list columns have different lengths")

// Stats counts what happened to the input.
type Stats struct {
	SourceRows       int
	Emitted          int
	DroppedInvalid   int
	DroppedDuplicate int
}

// Normalizer turns RawWideRows into FlatRows. Duplicates are detected
// through the store, which every call resets first.
type Normalizer struct {
	store state.Store
}

func New(store state.Store) *Normalizer {
	if store == nil {
		store = state.NewInMemoryStore()
	}
	return &Normalizer{store: store}
}

// Normalize expands rows in input order. A produced row with a missing or
// unparseable field is dropped, and so is an exact duplicate of a row
// already emitted. Malformed list cells and list length mismatches are
// errors naming the 1-based data row. Calling it again with the same input
// yields the same rows.
func (n *Normalizer) Normalize(rows []model.RawWideRow) ([]model.FlatRow, Stats, error) {
	st := Stats{SourceRows: len(rows)}
	if err := n.store.Reset(); err != nil {
		return nil, st, fmt.Errorf("dedup reset: %w", err)
	}
	var out []model.FlatRow

	for idx, raw := range rows {
		cols, err := splitColumns(raw)
		if err != nil {
			return nil, st, fmt.Errorf("row %d: %w", idx+1, err)
		}

		date, dateErr := time.Parse(model.DateLayout, strings.TrimSpace(raw.OrderDate))
		customer, custErr := strconv.Atoi(strings.TrimSpace(raw.CustomerID))
		headerOK := dateErr == nil && custErr == nil

		for i := range cols.names {
			row, ok := buildRow(cols, i)
			if !ok || !headerOK {
				st.DroppedInvalid++
				continue
			}
			row.OrderDate = date
			row.CustomerID = customer

			first, err := n.store.MarkSeen(row.Key())
			if err != nil {
				return nil, st, fmt.Errorf("row %d: dedup: %w", idx+1, err)
			}
			if !first {
				st.DroppedDuplicate++
				continue
			}
			out = append(out, row)
			st.Emitted++
		}
	}
	return out, st, nil
}

type columns struct {
	names, months, prices, qtys, totals []flatfile.Element
}

func splitColumns(raw model.RawWideRow) (columns, error) {
	var c columns
	cells := []struct {
		name string
		cell string
		dst  *[]flatfile.Element
	}{
		{model.ColProductName, raw.ProductNames, &c.names},
		{model.ColMonthNumber, raw.MonthNumbers, &c.months},
		{model.ColUnitPrice, raw.UnitPrices, &c.prices},
		{model.ColQuantity, raw.Quantities, &c.qtys},
		{model.ColLineTotal, raw.LineTotals, &c.totals},
	}
	for _, x := range cells {
		elems, err := flatfile.SplitList(x.cell)
		if err != nil {
			return columns{}, fmt.Errorf("%s: %w", x.name, err)
		}
		*x.dst = elems
	}
	want := len(c.names)
	for _, x := range cells[1:] {
		if got := len(*x.dst); got != want {
			return columns{}, fmt.Errorf("%w: %s has %d elements, %s has %d",
				ErrLengthMismatch, model.ColProductName, want, x.name, got)
		}
	}
	return c, nil
}

// buildRow converts the i-th element of every list column. ok is false if
// any element is missing or does not parse. A quoted empty name is kept.
func buildRow(c columns, i int) (model.FlatRow, bool) {
	if c.names[i].Missing() {
		return model.FlatRow{}, false
	}
	name := c.names[i].Value
	month, err := strconv.Atoi(c.months[i].Value)
	if err != nil {
		return model.FlatRow{}, false
	}
	price, ok := parseFloat(c.prices[i].Value)
	if !ok {
		return model.FlatRow{}, false
	}
	qty, err := strconv.Atoi(c.qtys[i].Value)
	if err != nil {
		return model.FlatRow{}, false
	}
	total, ok := parseFloat(c.totals[i].Value)
	if !ok {
		return model.FlatRow{}, false
	}
	return model.FlatRow{
		ProductName: name,
		MonthNumber: month,
		UnitPrice:   price,
		Quantity:    qty,
		LineTotal:   total,
	}, true
}

// parseFloat rejects NaN, which counts as a missing value.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
