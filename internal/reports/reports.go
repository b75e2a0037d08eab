package reports

import (
	"go-pos-ledger/internal/models"
)

// SalesReportResult holds the period aggregates the report screen and the AI
// assistant both need.
type SalesReportResult struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalProfit  float64 `json:"total_profit"`
	TotalCount   int     `json:"total_count"`
}

// SalesBetween filters sales whose calendar date falls in [start, end], both
// "YYYY-MM-DD" inclusive. Dates in the document are ISO-8601 strings, so the
// day is a plain prefix and lexicographic compare is date compare.
func SalesBetween(sales []models.Sale, start, end string) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if len(s.Date) < 10 {
			continue
		}
		day := s.Date[:10]
		if day >= start && day <= end {
			out = append(out, s)
		}
	}
	return out
}

// Summarize totals revenue and profit over the given sales. Profit uses the
// buy-price snapshots taken at sale time, so later price edits never move
// historical numbers.
func Summarize(sales []models.Sale) SalesReportResult {
	var result SalesReportResult
	for _, s := range sales {
		result.TotalRevenue += s.TotalAmount
		result.TotalProfit += SaleProfit(s)
		result.TotalCount++
	}
	return result
}

// SaleProfit is the margin of one invoice.
func SaleProfit(s models.Sale) float64 {
	var profit float64
	for _, item := range s.Items {
		profit += (item.SellPrice - item.BuyPriceAtSale) * float64(item.Quantity)
	}
	return profit
}

// OutstandingDebt sums every customer's running balance.
func OutstandingDebt(customers []models.Customer) float64 {
	var total float64
	for _, c := range customers {
		total += c.TotalDebt
	}
	return total
}

// LowStockCount counts products under the reorder threshold.
func LowStockCount(products []models.Product, threshold int) int {
	count := 0
	for _, p := range products {
		if p.Quantity < threshold {
			count++
		}
	}
	return count
}
