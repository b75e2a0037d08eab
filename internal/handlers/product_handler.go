package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-pos-ledger/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// --- GET: The whole document ---
// Every screen of the frontend boots from this. Load never fails; worst case
// it serves the seed document and flags the degraded source.
func (h *Handler) GetState(c *gin.Context) {
	state, res := h.Store.Load(c.Request.Context())
	c.Header("X-Store-Source", string(res.Source))
	c.JSON(http.StatusOK, state)
}

// --- GET: List all products ---
func (h *Handler) GetProducts(c *gin.Context) {
	state, _ := h.Store.Load(c.Request.Context())
	c.JSON(http.StatusOK, state.Products)
}

// --- PUT: Replace the whole inventory ---
// The stock screen edits its local list and writes it back wholesale, same
// contract as every other collection.
func (h *Handler) ReplaceProducts(c *gin.Context) {
	var products []models.Product
	if err := c.ShouldBindJSON(&products); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	res := h.Store.UpdateProducts(c.Request.Context(), products)
	respondSave(c, res, gin.H{"message": "Products updated successfully", "count": len(products)})
}

// CheckoutRequest defines what the cashier screen sends us
type CheckoutRequest struct {
	Items []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"items" binding:"required"`
	PaidAmount   *float64 `json:"paidAmount"`
	CustomerName string   `json:"customerName"`
}

// Checkout builds the sale server-side, snapshotting prices from the current
// inventory, then commits it through the store. The invoice number on the
// response is the one actually assigned at commit, not the one the screen
// was previewing.
func (h *Handler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	ctx := c.Request.Context()
	state, _ := h.Store.Load(ctx)

	var totalAmount float64
	saleItems := make([]models.SaleItem, 0, len(req.Items))

	for _, item := range req.Items {
		var product *models.Product
		for i := range state.Products {
			if state.Products[i].ID == item.ProductID {
				product = &state.Products[i]
				break
			}
		}
		if product == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Product %s not found", item.ProductID)})
			return
		}
		if item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid quantity for %s", product.Name)})
			return
		}

		lineTotal := product.SellPrice * float64(item.Quantity)
		totalAmount += lineTotal

		saleItems = append(saleItems, models.SaleItem{
			ProductID:      product.ID,
			ProductName:    product.Name,
			Quantity:       item.Quantity,
			SellPrice:      product.SellPrice,
			BuyPriceAtSale: product.BuyPrice,
			Total:          lineTotal,
		})
	}

	paidAmount := totalAmount
	if req.PaidAmount != nil {
		paidAmount = *req.PaidAmount
	}
	debtAmount := totalAmount - paidAmount
	if debtAmount < 0 {
		// Overpayment is change handed back, never customer credit.
		debtAmount = 0
	}

	customerName := req.CustomerName
	if debtAmount > 0 && customerName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer name is required to record debt"})
		return
	}
	if customerName == "" {
		customerName = "Cash customer"
	}

	sale := models.Sale{
		ID:           uuid.NewString(),
		Date:         time.Now().UTC().Format(time.RFC3339),
		Items:        saleItems,
		TotalAmount:  totalAmount,
		PaidAmount:   paidAmount,
		DebtAmount:   debtAmount,
		CustomerName: customerName,
		EmployeeID:   c.GetString("userID"),
		EmployeeName: c.GetString("userName"),
	}

	committed, res := h.Store.RecordSale(ctx, sale)
	respondSave(c, res, gin.H{
		"message":       "Sale recorded!",
		"sale":          committed,
		"invoiceNumber": committed.InvoiceNumber,
	})
}
