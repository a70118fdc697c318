package report

import (
	"encoding/json"
	"fmt"
	"os"

	"ordersynth/internal/model"
)

// SummaryFile is the JSON dump of the three aggregates.
const SummaryFile = "report_summary.json"

// Summary holds the aggregates behind the charts.
type Summary struct {
	Rows            int            `json:"rows"`
	TopSellers      []ProductTotal `json:"topSellers"`
	OrdersPerMonth  []MonthCount   `json:"ordersPerMonth"`
	RevenuePerMonth []MonthRevenue `json:"revenuePerMonth"`
}

func Summarize(rows []model.FlatRow) Summary {
	return Summary{
		Rows:            len(rows),
		TopSellers:      TopSellers(rows, TopN),
		OrdersPerMonth:  OrdersPerMonth(rows),
		RevenuePerMonth: RevenuePerMonth(rows),
	}
}

// WriteSummary writes s as indented JSON, overwriting path.
func WriteSummary(path string, s Summary) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return out.Close()
}
