package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"ordersynth/internal/model"
)

// TopN is how many products the best-sellers chart shows.
const TopN = 5

type ProductTotal struct {
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
}

type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

type MonthRevenue struct {
	Month   int     `json:"month"`
	Revenue float64 `json:"revenue"`
}

// TopSellers sums quantity per product and returns the n largest sums.
// Ties are broken by product name ascending.
func TopSellers(rows []model.FlatRow, n int) []ProductTotal {
	sums := make(map[string]int)
	for _, r := range rows {
		sums[r.ProductName] += r.Quantity
	}
	out := make([]ProductTotal, 0, len(sums))
	for name, q := range sums {
		out = append(out, ProductTotal{ProductName: name, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].ProductName < out[j].ProductName
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// OrdersPerMonth counts line items per month number, ascending by month.
func OrdersPerMonth(rows []model.FlatRow) []MonthCount {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[r.MonthNumber]++
	}
	out := make([]MonthCount, 0, len(counts))
	for _, m := range sortedMonths(counts) {
		out = append(out, MonthCount{Month: m, Count: counts[m]})
	}
	return out
}

// RevenuePerMonth sums line totals per month number, ascending by month.
func RevenuePerMonth(rows []model.FlatRow) []MonthRevenue {
	sums := make(map[int]decimal.Decimal)
	for _, r := range rows {
		sums[r.MonthNumber] = sums[r.MonthNumber].Add(decimal.NewFromFloat(r.LineTotal))
	}
	out := make([]MonthRevenue, 0, len(sums))
	for _, m := range sortedMonths(sums) {
		f, _ := sums[m].Float64()
		out = append(out, MonthRevenue{Month: m, Revenue: f})
	}
	return out
}

func sortedMonths[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
