package model

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the on-disk form of OrderHeader.OrderDate.
const DateLayout = "2006-01-02"

// Column names shared by the wide and the flat files, in file order.
const (
	ColOrderDate   = "Order Date"
	ColCustomerID  = "Customer Id"
	ColProductName = "Name Product"
	ColMonthNumber = "Number Month"
	ColUnitPrice   = "Basic Price"
	ColQuantity    = "Final Quantity"
	ColLineTotal   = "Final Price"
)

// Columns returns the header row of both file layouts.
func Columns() []string {
	return []string{
		ColOrderDate,
		ColCustomerID,
		ColProductName,
		ColMonthNumber,
		ColUnitPrice,
		ColQuantity,
		ColLineTotal,
	}
}

// OrderHeader is one synthesized order.
type OrderHeader struct {
	OrderDate  time.Time `json:"orderDate"`
	CustomerID int       `json:"customerId"`
}

// LineItem is one product line within an order.
type LineItem struct {
	ProductName string  `json:"productName"`
	MonthNumber int     `json:"monthNumber"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"lineTotal"`
}

// NewLineItem builds a LineItem with LineTotal = UnitPrice * Quantity.
func NewLineItem(name string, month int, unitPrice float64, qty int) LineItem {
	return LineItem{
		ProductName: name,
		MonthNumber: month,
		UnitPrice:   unitPrice,
		Quantity:    qty,
		LineTotal:   unitPrice * float64(qty),
	}
}

// WideRow is one order header with all of its line items.
type WideRow struct {
	OrderHeader
	Items []LineItem
}

// RawWideRow is a wide row as read back from text. List cells are still
// encoded.
type RawWideRow struct {
	OrderDate    string
	CustomerID   string
	ProductNames string
	MonthNumbers string
	UnitPrices   string
	Quantities   string
	LineTotals   string
}

// FlatRow is one (OrderHeader, LineItem) pair.
type FlatRow struct {
	OrderDate   time.Time `json:"orderDate"`
	CustomerID  int       `json:"customerId"`
	ProductName string    `json:"productName"`
	MonthNumber int       `json:"monthNumber"`
	UnitPrice   float64   `json:"unitPrice"`
	Quantity    int       `json:"quantity"`
	LineTotal   float64   `json:"lineTotal"`
}

// Key returns a canonical encoding of every field. Two rows are exact
// duplicates iff their keys are equal.
func (r FlatRow) Key() string {
	var b strings.Builder
	b.WriteString(r.OrderDate.Format(DateLayout))
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(r.CustomerID))
	b.WriteByte('#')
	b.WriteString(strconv.Quote(r.ProductName))
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(r.MonthNumber))
	b.WriteByte('#')
	b.WriteString(strconv.FormatFloat(r.UnitPrice, 'g', -1, 64))
	b.WriteByte('#')
	b.WriteString(strconv.Itoa(r.Quantity))
	b.WriteByte('#')
	b.WriteString(strconv.FormatFloat(r.LineTotal, 'g', -1, 64))
	return b.String()
}

// Record renders the row as flat-file cells in Columns() order.
func (r FlatRow) Record() []string {
	return []string{
		r.OrderDate.Format(DateLayout),
		strconv.Itoa(r.CustomerID),
		r.ProductName,
		strconv.Itoa(r.MonthNumber),
		FormatFloat(r.UnitPrice),
		strconv.Itoa(r.Quantity),
		FormatFloat(r.LineTotal),
	}
}

// FormatFloat is the shortest text form that parses back to f.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
