package generate

import (
	"math/rand"
	"time"

	"ordersynth/internal/model"
)

// Catalog is the fixed set of product names line items are drawn from.
var Catalog = []string{
	"Apple", "Apricot", "Avocado", "Banana", "Blackberry", "Blueberry",
	"Cherry", "Coconut", "Cranberry", "Date", "Dragonfruit", "Fig",
	"Grape", "Grapefruit", "Guava", "Kiwi", "Lemon", "Lime", "Lychee",
	"Mango", "Melon", "Nectarine", "Orange", "Papaya", "Passion Fruit",
	"Peach", "Pear", "Pineapple", "Plum", "Pomegranate", "Raspberry",
	"Strawberry", "Tangerine", "Watermelon",
}

var (
	firstDay = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	lastDay  = time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
)

const (
	minCustomerID = 1
	maxCustomerID = 100
	minUnitPrice  = 100.0
	maxUnitPrice  = 1000.0
	maxQuantity   = 20
)

// Generator draws synthetic orders.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator. seed 0 picks a time-based seed.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate returns count orders with itemsPerOrder line items each.
// month_number is drawn independently of the order date.
func (g *Generator) Generate(count, itemsPerOrder int) []model.WideRow {
	if count < 0 {
		count = 0
	}
	if itemsPerOrder < 0 {
		itemsPerOrder = 0
	}
	days := int(lastDay.Sub(firstDay).Hours()/24) + 1

	rows := make([]model.WideRow, 0, count)
	for i := 0; i < count; i++ {
		row := model.WideRow{
			OrderHeader: model.OrderHeader{
				OrderDate:  firstDay.AddDate(0, 0, g.rnd.Intn(days)),
				CustomerID: minCustomerID + g.rnd.Intn(maxCustomerID-minCustomerID+1),
			},
			Items: make([]model.LineItem, 0, itemsPerOrder),
		}
		for j := 0; j < itemsPerOrder; j++ {
			row.Items = append(row.Items, model.NewLineItem(
				Catalog[g.rnd.Intn(len(Catalog))],
				1+g.rnd.Intn(12),
				minUnitPrice+g.rnd.Float64()*(maxUnitPrice-minUnitPrice), // [100,1000)
				1+g.rnd.Intn(maxQuantity),
			))
		}
		rows = append(rows, row)
	}
	return rows
}
