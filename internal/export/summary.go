// Package export renders transaction data as CSV, XLSX and PDF documents.
package export

import (
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/shopspring/decimal"
)

// MaterialSummary is one row of the per-material breakdown of a transaction.
type MaterialSummary struct {
	MaterialType string
	Weight       decimal.Decimal
	Index        int
	Count        int
}

// Summarize groups items by material type in order of first appearance.
func Summarize(items []model.Item) []MaterialSummary {
	var out []MaterialSummary
	pos := make(map[string]int)

	for _, item := range items {
		i, ok := pos[item.MaterialType]
		if !ok {
			i = len(out)
			pos[item.MaterialType] = i
			out = append(out, MaterialSummary{Index: i + 1, MaterialType: item.MaterialType})
		}
		out[i].Count++
		out[i].Weight = out[i].Weight.Add(decimal.NewFromFloat(item.Weight))
	}
	return out
}

// GrandTotal sums the group subtotals, so it always equals what the summary
// table shows row by row.
func GrandTotal(groups []MaterialSummary) decimal.Decimal {
	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.Weight)
	}
	return total
}

// TotalWeight is the grand total weight of items.
func TotalWeight(items []model.Item) decimal.Decimal {
	return GrandTotal(Summarize(items))
}

// ReportTotal sums the pre-aggregated rows of a store report.
func ReportTotal(rows []model.MaterialTotal) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(decimal.NewFromFloat(r.TotalWeight))
	}
	return total
}

// FormatWeight renders a weight with two decimals.
func FormatWeight(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func decimalOf(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
