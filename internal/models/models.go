package models

import (
	"time"
)

// Roles - who can do what. ADMIN unlocks reports, payroll and the AI assistant.
const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Transaction types on the customer debt ledger
const (
	TransactionDebt    = "DEBT"
	TransactionPayment = "PAYMENT"
)

// User - An employee account. Doubles as the login identity.
// The password field may hold a bcrypt hash or (in legacy documents) plaintext.
type User struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Role       string  `json:"role"` // 'ADMIN' or 'EMPLOYEE'
	Password   string  `json:"password,omitempty"`
	BaseSalary float64 `json:"baseSalary"`
}

// Product - The Inventory
type Product struct {
	ID        string  `json:"id"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Type      string  `json:"type"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	BuyPrice  float64 `json:"buyPrice"`
	SellPrice float64 `json:"sellPrice"`
	Quantity  int     `json:"quantity"`
}

// Supplier - Standalone contact record, no relations enforced.
type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// CustomerTransaction - One ledger entry. DEBT grows the balance, PAYMENT shrinks it.
type CustomerTransaction struct {
	ID     string  `json:"id"`
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"` // 'DEBT' or 'PAYMENT'
	Note   string  `json:"note"`
}

// Customer - Debt account. TotalDebt is a running balance kept in sync by the
// mutators, never recomputed from the transaction history.
type Customer struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Phone        string                `json:"phone"`
	TotalDebt    float64               `json:"totalDebt"`
	Transactions []CustomerTransaction `json:"transactions"`
}

// SaleItem - Cart line. Prices are snapshotted at sale time so later product
// edits never change historical profit.
type SaleItem struct {
	ProductID      string  `json:"productId"`
	ProductName    string  `json:"productName"`
	Quantity       int     `json:"quantity"`
	SellPrice      float64 `json:"sellPrice"`
	BuyPriceAtSale float64 `json:"buyPriceAtSale"`
	Total          float64 `json:"total"`
}

// Sale - The Transaction Header. Immutable once committed; the invoice number
// is assigned by the store at commit time, not by the caller.
type Sale struct {
	ID            string     `json:"id"`
	InvoiceNumber int        `json:"invoiceNumber"`
	Date          string     `json:"date"`
	Items         []SaleItem `json:"items"`
	TotalAmount   float64    `json:"totalAmount"`
	PaidAmount    float64    `json:"paidAmount"`
	DebtAmount    float64    `json:"debtAmount"`
	CustomerID    string     `json:"customerId,omitempty"`
	CustomerName  string     `json:"customerName,omitempty"`
	EmployeeID    string     `json:"employeeId"`
	EmployeeName  string     `json:"employeeName"`
}

// SalaryRecord - One payroll posting. Net pay is computed, never stored.
type SalaryRecord struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Month      string  `json:"month"`
	Amount     float64 `json:"amount"`
	Bonus      float64 `json:"bonus"`
	Deductions float64 `json:"deductions"`
	Date       string  `json:"date"`
}

// Net returns the take-home amount for this posting.
func (r SalaryRecord) Net() float64 {
	return r.Amount + r.Bonus - r.Deductions
}

// AppState - The whole shop in one document. This is both the wire format of
// the cloud endpoint and the local snapshot format.
type AppState struct {
	CurrentUser       *User          `json:"currentUser"`
	Products          []Product      `json:"products"`
	Suppliers         []Supplier     `json:"suppliers"`
	Employees         []User         `json:"employees"`
	Sales             []Sale         `json:"sales"`
	Customers         []Customer     `json:"customers"`
	Salaries          []SalaryRecord `json:"salaries"`
	LastInvoiceNumber int            `json:"lastInvoiceNumber"`
}

// DefaultState is the document created on first run, seeded with one admin
// so the shop owner can log in before any data exists.
func DefaultState() AppState {
	return AppState{
		CurrentUser: nil,
		Products:    []Product{},
		Suppliers:   []Supplier{},
		Employees: []User{
			{
				ID:         "1",
				Name:       "Store Admin",
				Email:      "admin@shop.local",
				Role:       RoleAdmin,
				Password:   "123",
				BaseSalary: 0,
			},
		},
		Sales:             []Sale{},
		Customers:         []Customer{},
		Salaries:          []SalaryRecord{},
		LastInvoiceNumber: 0,
	}
}

// StoreSnapshot - The local fallback copy of the document. One row, keyed by
// a fixed name, holding the serialized AppState. This is the durability floor
// when the cloud endpoint is unreachable.
type StoreSnapshot struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Data      string    `gorm:"type:longtext" json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}
