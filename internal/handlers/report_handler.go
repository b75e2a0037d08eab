package handlers

import (
	"net/http"
	"time"

	"go-pos-ledger/internal/models"
	"go-pos-ledger/internal/reports"

	"github.com/gin-gonic/gin"
)

// invoiceRow is one line of the financial report table
type invoiceRow struct {
	InvoiceNumber int     `json:"invoiceNumber"`
	Date          string  `json:"date"`
	CustomerName  string  `json:"customerName"`
	TotalAmount   float64 `json:"totalAmount"`
	Profit        float64 `json:"profit"`
}

// ReportData defines the shape of the date-filtered financial report
type ReportData struct {
	StartDate    string       `json:"start_date"`
	EndDate      string       `json:"end_date"`
	TotalRevenue float64      `json:"total_revenue"`
	TotalProfit  float64      `json:"total_profit"`
	InvoiceCount int          `json:"invoice_count"`
	Invoices     []invoiceRow `json:"invoices"`
}

// --- GET: /api/reports?start=YYYY-MM-DD&end=YYYY-MM-DD ---
// Both bounds default to today, matching the report screen.
func (h *Handler) GetSalesReport(c *gin.Context) {
	today := time.Now().UTC().Format("2006-01-02")
	start := c.DefaultQuery("start", today)
	end := c.DefaultQuery("end", today)

	if _, err := time.Parse("2006-01-02", start); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be in YYYY-MM-DD format"})
		return
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dates must be in YYYY-MM-DD format"})
		return
	}

	state, _ := h.Store.Load(c.Request.Context())

	period := reports.SalesBetween(state.Sales, start, end)
	summary := reports.Summarize(period)

	data := ReportData{
		StartDate:    start,
		EndDate:      end,
		TotalRevenue: summary.TotalRevenue,
		TotalProfit:  summary.TotalProfit,
		InvoiceCount: summary.TotalCount,
		Invoices:     make([]invoiceRow, 0, len(period)),
	}

	// Newest first, like the invoice log on screen
	for i := len(period) - 1; i >= 0; i-- {
		s := period[i]
		data.Invoices = append(data.Invoices, invoiceRow{
			InvoiceNumber: s.InvoiceNumber,
			Date:          s.Date,
			CustomerName:  s.CustomerName,
			TotalAmount:   s.TotalAmount,
			Profit:        reports.SaleProfit(s),
		})
	}

	c.JSON(http.StatusOK, data)
}

// lowStockThreshold mirrors the dashboard's "running out" card
const lowStockThreshold = 5

// --- GET: /api/reports/dashboard ---
// Today's numbers for the home screen: sales, profit, low stock, total debt,
// plus the latest invoices.
func (h *Handler) GetDashboard(c *gin.Context) {
	state, _ := h.Store.Load(c.Request.Context())

	today := time.Now().UTC().Format("2006-01-02")
	salesToday := reports.SalesBetween(state.Sales, today, today)
	summary := reports.Summarize(salesToday)

	recent := state.Sales
	if len(recent) > 6 {
		recent = recent[len(recent)-6:]
	}
	// newest first
	recentSales := make([]models.Sale, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		recentSales = append(recentSales, recent[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"sales_today":      summary.TotalRevenue,
		"profit_today":     summary.TotalProfit,
		"invoices_today":   summary.TotalCount,
		"low_stock_count":  reports.LowStockCount(state.Products, lowStockThreshold),
		"outstanding_debt": reports.OutstandingDebt(state.Customers),
		"recent_sales":     recentSales,
	})
}

// --- DATA STRUCTURES FOR VALUATION REPORT ---

// ValuationItem represents a single row in the printout table
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// TypeGroup represents one table in the printout (e.g. all shirts)
type TypeGroup struct {
	TypeName string          `json:"type_name"`
	Items    []ValuationItem `json:"items"`
	Subtotal float64         `json:"subtotal"`
}

// ValuationResponse is the final payload for the stock valuation screen
type ValuationResponse struct {
	Groups     []TypeGroup `json:"groups"`
	GrandTotal float64     `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation prices the physical inventory at buy price, grouped by
// product type.
func (h *Handler) GetStockValuation(c *gin.Context) {
	state, _ := h.Store.Load(c.Request.Context())

	var grandTotal float64
	groupedMap := make(map[string]*TypeGroup)
	order := make([]string, 0)

	for _, p := range state.Products {
		typeName := p.Type
		if typeName == "" {
			typeName = "Uncategorized"
		}

		group, exists := groupedMap[typeName]
		if !exists {
			group = &TypeGroup{TypeName: typeName, Items: []ValuationItem{}}
			groupedMap[typeName] = group
			order = append(order, typeName)
		}

		itemTotal := float64(p.Quantity) * p.BuyPrice
		group.Items = append(group.Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Quantity,
			CostPrice: p.BuyPrice,
			TotalCost: itemTotal,
		})
		group.Subtotal += itemTotal
		grandTotal += itemTotal
	}

	response := ValuationResponse{GrandTotal: grandTotal, Groups: make([]TypeGroup, 0, len(order))}
	for _, name := range order {
		response.Groups = append(response.Groups, *groupedMap[name])
	}

	c.JSON(http.StatusOK, response)
}
