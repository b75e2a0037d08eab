package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-pos-ledger/internal/auth"
	"go-pos-ledger/internal/middleware"
	"go-pos-ledger/internal/models"
	"go-pos-ledger/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memLocal is an in-memory store.LocalStore for handler tests.
type memLocal struct {
	data string
}

func (m *memLocal) ReadBlob() (string, error) { return m.data, nil }
func (m *memLocal) WriteBlob(d string) error { m.data = d; return nil }

// newTestServer wires the route table the way cmd/server does, backed by an
// in-memory document.
func newTestServer(t *testing.T, seed *models.AppState) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	local := &memLocal{}
	if seed != nil {
		data, err := json.Marshal(seed)
		require.NoError(t, err)
		local.data = string(data)
	}

	st := store.New(nil, local)
	h := New(st)

	r := gin.New()
	r.POST("/login", h.Login)
	r.POST("/register", h.Register)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/state", h.GetState)
		api.GET("/products", h.GetProducts)
		api.POST("/checkout", h.Checkout)
		api.GET("/customers", h.GetCustomers)
		api.PUT("/customers", h.ReplaceCustomers)
		api.GET("/system/status", h.GetSystemStatus)
		api.GET("/reports/dashboard", h.GetDashboard)

		admin := api.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.PUT("/products", h.ReplaceProducts)
			admin.GET("/suppliers", h.GetSuppliers)
			admin.PUT("/suppliers", h.ReplaceSuppliers)
			admin.GET("/employees", h.GetEmployees)
			admin.PUT("/employees", h.ReplaceEmployees)
			admin.GET("/salaries", h.GetSalaries)
			admin.POST("/salaries", h.AddSalary)
			admin.GET("/reports", h.GetSalesReport)
			admin.GET("/reports/valuation", h.GetStockValuation)
		}
	}

	return r, st
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("1", "Store Admin", models.RoleAdmin)
	require.NoError(t, err)
	return token
}

func employeeToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("2", "Sara", models.RoleEmployee)
	require.NoError(t, err)
	return token
}

func TestLoginWithSeedAdmin(t *testing.T) {
	r, _ := newTestServer(t, nil)

	w := doJSON(t, r, http.MethodPost, "/login", "", gin.H{"email": "admin@shop.local", "password": "123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, models.RoleAdmin, resp["role"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _ := newTestServer(t, nil)

	w := doJSON(t, r, http.MethodPost, "/login", "", gin.H{"email": "admin@shop.local", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/login", "", gin.H{"email": "nobody@shop.local", "password": "123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	seed := models.DefaultState()
	seed.Employees = []models.User{{
		ID: "9", Name: "Hashed", Email: "hashed@shop.local",
		Role: models.RoleEmployee, Password: string(hash),
	}}

	r, _ := newTestServer(t, &seed)

	w := doJSON(t, r, http.MethodPost, "/login", "", gin.H{"email": "hashed@shop.local", "password": "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/login", "", gin.H{"email": "hashed@shop.local", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired(t *testing.T) {
	r, _ := newTestServer(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "NotBearer xyz")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
}

func TestAdminRoutesForbiddenForEmployees(t *testing.T) {
	r, _ := newTestServer(t, nil)

	w := doJSON(t, r, http.MethodPut, "/api/products", employeeToken(t), []models.Product{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/reports", employeeToken(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetStateAlwaysStructurallyComplete(t *testing.T) {
	r, _ := newTestServer(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/state", employeeToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "seed", w.Header().Get("X-Store-Source"))

	var state models.AppState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.NotNil(t, state.Products)
	require.Len(t, state.Employees, 1)
}

func TestCheckoutRecordsSale(t *testing.T) {
	seed := models.DefaultState()
	seed.LastInvoiceNumber = 5
	seed.Products = []models.Product{{ID: "p1", Name: "Jacket", Quantity: 10, SellPrice: 20, BuyPrice: 12}}

	r, st := newTestServer(t, &seed)

	body := gin.H{
		"items":        []gin.H{{"productId": "p1", "quantity": 3}},
		"paidAmount":   40,
		"customerName": "Khaled",
	}
	w := doJSON(t, r, http.MethodPost, "/api/checkout", employeeToken(t), body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		InvoiceNumber int         `json:"invoiceNumber"`
		Sale          models.Sale `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.InvoiceNumber)
	assert.Equal(t, 60.0, resp.Sale.TotalAmount)
	assert.Equal(t, 20.0, resp.Sale.DebtAmount)
	assert.Equal(t, "Sara", resp.Sale.EmployeeName)
	require.Len(t, resp.Sale.Items, 1)
	assert.Equal(t, 12.0, resp.Sale.Items[0].BuyPriceAtSale, "buy price snapshotted for profit")

	state, _ := st.Load(context.Background())
	assert.Equal(t, 7, state.Products[0].Quantity)
	require.Len(t, state.Customers, 1)
	assert.Equal(t, 20.0, state.Customers[0].TotalDebt)
}

func TestCheckoutValidation(t *testing.T) {
	seed := models.DefaultState()
	seed.Products = []models.Product{{ID: "p1", Name: "Jacket", Quantity: 10, SellPrice: 20}}
	r, _ := newTestServer(t, &seed)
	token := employeeToken(t)

	// empty cart
	w := doJSON(t, r, http.MethodPost, "/api/checkout", token, gin.H{"items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown product
	w = doJSON(t, r, http.MethodPost, "/api/checkout", token, gin.H{
		"items": []gin.H{{"productId": "ghost", "quantity": 1}},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// debt without a customer name
	w = doJSON(t, r, http.MethodPost, "/api/checkout", token, gin.H{
		"items":      []gin.H{{"productId": "p1", "quantity": 1}},
		"paidAmount": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// overpayment is not credit
	w = doJSON(t, r, http.MethodPost, "/api/checkout", token, gin.H{
		"items":      []gin.H{{"productId": "p1", "quantity": 1}},
		"paidAmount": 100,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Sale models.Sale `json:"sale"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.Sale.DebtAmount)
}

func TestSalesReportDateFilter(t *testing.T) {
	seed := models.DefaultState()
	seed.Sales = []models.Sale{
		{InvoiceNumber: 1, Date: "2026-03-10T10:00:00Z", TotalAmount: 100,
			Items: []models.SaleItem{{Quantity: 1, SellPrice: 100, BuyPriceAtSale: 60}}},
		{InvoiceNumber: 2, Date: "2026-04-10T10:00:00Z", TotalAmount: 999},
	}

	r, _ := newTestServer(t, &seed)

	w := doJSON(t, r, http.MethodGet, "/api/reports?start=2026-03-01&end=2026-03-31", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data ReportData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Equal(t, 100.0, data.TotalRevenue)
	assert.Equal(t, 40.0, data.TotalProfit)
	assert.Equal(t, 1, data.InvoiceCount)
	require.Len(t, data.Invoices, 1)
	assert.Equal(t, 1, data.Invoices[0].InvoiceNumber)

	w = doJSON(t, r, http.MethodGet, "/api/reports?start=bad&end=2026-03-31", adminToken(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStockValuationGroupsByType(t *testing.T) {
	seed := models.DefaultState()
	seed.Products = []models.Product{
		{ID: "p1", Name: "Shirt A", Type: "Shirts", Quantity: 10, BuyPrice: 5},
		{ID: "p2", Name: "Shirt B", Type: "Shirts", Quantity: 2, BuyPrice: 8},
		{ID: "p3", Name: "Odd one", Type: "", Quantity: 1, BuyPrice: 3},
	}

	r, _ := newTestServer(t, &seed)

	w := doJSON(t, r, http.MethodGet, "/api/reports/valuation", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValuationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 69.0, resp.GrandTotal)
	require.Len(t, resp.Groups, 2)
	assert.Equal(t, "Shirts", resp.Groups[0].TypeName)
	assert.Equal(t, 66.0, resp.Groups[0].Subtotal)
	assert.Equal(t, "Uncategorized", resp.Groups[1].TypeName)
}

func TestSalariesPostAndList(t *testing.T) {
	r, st := newTestServer(t, nil)
	token := adminToken(t)

	w := doJSON(t, r, http.MethodPost, "/api/salaries", token, gin.H{
		"employeeId": "1",
		"amount":     3000,
		"bonus":      200,
		"deductions": 50,
		"month":      "March 2026",
	})
	require.Equal(t, http.StatusOK, w.Code)

	state, _ := st.Load(context.Background())
	require.Len(t, state.Salaries, 1)
	assert.Equal(t, 3150.0, state.Salaries[0].Net())

	w = doJSON(t, r, http.MethodGet, "/api/salaries", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var views []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, 3150.0, views[0]["net"])
}

func TestReplaceCustomersCarriesPayments(t *testing.T) {
	seed := models.DefaultState()
	seed.Customers = []models.Customer{{
		ID: "c1", Name: "Mona", TotalDebt: 50,
		Transactions: []models.CustomerTransaction{{ID: "t0", Amount: 50, Type: models.TransactionDebt}},
	}}

	r, st := newTestServer(t, &seed)

	// The screen posts a payment by editing the list and writing it back.
	updated := seed.Customers
	updated[0].TotalDebt = 20
	updated[0].Transactions = append(updated[0].Transactions, models.CustomerTransaction{
		ID: "t1", Amount: 30, Type: models.TransactionPayment, Note: "cash payment",
	})

	w := doJSON(t, r, http.MethodPut, "/api/customers", employeeToken(t), updated)
	require.Equal(t, http.StatusOK, w.Code)

	state, _ := st.Load(context.Background())
	require.Len(t, state.Customers, 1)
	assert.Equal(t, 20.0, state.Customers[0].TotalDebt)
	require.Len(t, state.Customers[0].Transactions, 2)
	assert.Equal(t, models.TransactionPayment, state.Customers[0].Transactions[1].Type)
}

func TestDashboardTotals(t *testing.T) {
	seed := models.DefaultState()
	seed.Products = []models.Product{{ID: "p1", Quantity: 2}}
	seed.Customers = []models.Customer{{ID: "c1", Name: "Mona", TotalDebt: 75, Transactions: []models.CustomerTransaction{}}}

	r, _ := newTestServer(t, &seed)

	w := doJSON(t, r, http.MethodGet, "/api/reports/dashboard", employeeToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 75.0, resp["outstanding_debt"])
	assert.Equal(t, 1.0, resp["low_stock_count"])
}
