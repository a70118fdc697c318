package flatfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"ordersynth/internal/model"
)

// ErrHeaderMismatch is returned by ReadWide when the header row is not
// model.Columns().
var ErrHeaderMismatch = errors.New("unexpected header row")

// WriteWide writes one row per order with list-valued line item columns.
// The destination is overwritten.
func WriteWide(path string, rows []model.WideRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, wideRecord(r))
	}
	return writeCSV(path, records)
}

// WriteFlat writes one row per line item. The destination is overwritten.
func WriteFlat(path string, rows []model.FlatRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return writeCSV(path, records)
}

func wideRecord(r model.WideRow) []string {
	k := len(r.Items)
	names := make([]string, k)
	months := make([]int, k)
	prices := make([]float64, k)
	qtys := make([]int, k)
	totals := make([]float64, k)
	for i, it := range r.Items {
		names[i] = it.ProductName
		months[i] = it.MonthNumber
		prices[i] = it.UnitPrice
		qtys[i] = it.Quantity
		totals[i] = it.LineTotal
	}
	return []string{
		r.OrderDate.Format(model.DateLayout),
		strconv.Itoa(r.CustomerID),
		EncodeStrings(names),
		EncodeInts(months),
		EncodeFloats(prices),
		EncodeInts(qtys),
		EncodeFloats(totals),
	}
}

func writeCSV(path string, records [][]string) error {
	if err := createCSV(path, records); err != nil {
		return err
	}
	log.Printf("data saved to %s", path)
	return nil
}

func createCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(model.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	// WriteAll flushes
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return f.Close()
}

// ReadWide reads a file written by WriteWide. Cells are returned unparsed.
func ReadWide(path string) ([]model.RawWideRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return DecodeWide(f)
}

// DecodeWide is ReadWide over an arbitrary reader.
func DecodeWide(r io.Reader) ([]model.RawWideRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(model.Columns())

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrHeaderMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range model.Columns() {
		if header[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrHeaderMismatch, i+1, header[i], col)
		}
	}

	var rows []model.RawWideRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, model.RawWideRow{
			OrderDate:    rec[0],
			CustomerID:   rec[1],
			ProductNames: rec[2],
			MonthNumbers: rec[3],
			UnitPrices:   rec[4],
			Quantities:   rec[5],
			LineTotals:   rec[6],
		})
	}
}
