package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-pos-ledger/internal/models"

	"github.com/gin-gonic/gin"
)

// The contact books (customers, suppliers, employees) share one contract:
// GET the list, PUT the edited list back wholesale. Debt payments ride the
// customers PUT - the screen adjusts totalDebt and appends the PAYMENT entry
// before writing.

func (h *Handler) GetCustomers(c *gin.Context) {
	state, _ := h.Store.Load(c.Request.Context())
	c.JSON(http.StatusOK, state.Customers)
}

func (h *Handler) ReplaceCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := c.ShouldBindJSON(&customers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	res := h.Store.UpdateCustomers(c.Request.Context(), customers)
	respondSave(c, res, gin.H{"message": "Customers updated successfully", "count": len(customers)})
}

func (h *Handler) GetSuppliers(c *gin.Context) {
	state, _ := h.Store.Load(c.Request.Context())
	c.JSON(http.StatusOK, state.Suppliers)
}

func (h *Handler) ReplaceSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := c.ShouldBindJSON(&suppliers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	res := h.Store.UpdateSuppliers(c.Request.Context(), suppliers)
	respondSave(c, res, gin.H{"message": "Suppliers updated successfully", "count": len(suppliers)})
}

func (h *Handler) GetEmployees(c *gin.Context) {
	state, _ := h.Store.Load(c.Request.Context())
	c.JSON(http.StatusOK, state.Employees)
}

func (h *Handler) ReplaceEmployees(c *gin.Context) {
	var employees []models.User
	if err := c.ShouldBindJSON(&employees); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	res := h.Store.UpdateEmployees(c.Request.Context(), employees)
	respondSave(c, res, gin.H{"message": "Employees updated successfully", "count": len(employees)})
}

// salaryView is a SalaryRecord plus the computed net, which is never stored.
type salaryView struct {
	models.SalaryRecord
	Net float64 `json:"net"`
}

func (h *Handler) GetSalaries(c *gin.Context) {
	state, _ := h.Store.Load(c.Request.Context())

	views := make([]salaryView, 0, len(state.Salaries))
	for _, s := range state.Salaries {
		views = append(views, salaryView{SalaryRecord: s, Net: s.Net()})
	}
	c.JSON(http.StatusOK, views)
}

type SalaryRequest struct {
	EmployeeID string  `json:"employeeId" binding:"required"`
	Amount     float64 `json:"amount"`
	Bonus      float64 `json:"bonus"`
	Deductions float64 `json:"deductions"`
	Month      string  `json:"month"`
}

// AddSalary posts one payroll record. Month defaults to the current one; no
// duplicate-period check on purpose, advances mid-month are a thing.
func (h *Handler) AddSalary(c *gin.Context) {
	var req SalaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	now := time.Now().UTC()
	month := req.Month
	if month == "" {
		month = now.Format("January 2006")
	}

	record := models.SalaryRecord{
		ID:         fmt.Sprintf("s_%d", now.UnixMilli()),
		EmployeeID: req.EmployeeID,
		Month:      month,
		Amount:     req.Amount,
		Bonus:      req.Bonus,
		Deductions: req.Deductions,
		Date:       now.Format(time.RFC3339),
	}

	res := h.Store.AddSalaryRecord(c.Request.Context(), record)
	respondSave(c, res, gin.H{
		"message": "Salary recorded",
		"record":  salaryView{SalaryRecord: record, Net: record.Net()},
	})
}
