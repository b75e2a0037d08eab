package store

import (
	"context"
	"fmt"
	"time"

	"go-pos-ledger/internal/models"
)

// Each mutator is one load → patch → save cycle over the whole document.
// The store mutex makes the cycle atomic against other mutators in this
// process; it is NOT atomic against another till writing to the same cloud
// endpoint.

// RecordSale commits a checkout: assigns the next invoice number, appends the
// sale, walks the cart to decrement stock, and posts any unpaid remainder to
// the customer's debt ledger. Returns the sale as committed.
//
// Stock is decremented without a floor check. If this till's view was stale
// the quantity goes negative, which the stock screen surfaces rather than
// this layer inventing a correction.
func (s *Store) RecordSale(ctx context.Context, sale models.Sale) (models.Sale, SaveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.loadLocked(ctx)

	// Invoice number assignment and the counter bump are one logical step.
	state.LastInvoiceNumber++
	sale.InvoiceNumber = state.LastInvoiceNumber
	state.Sales = append(state.Sales, sale)

	for _, item := range sale.Items {
		for i := range state.Products {
			if state.Products[i].ID == item.ProductID {
				state.Products[i].Quantity -= item.Quantity
				break
			}
		}
	}

	if sale.DebtAmount > 0 {
		cust := lookupOrCreateCustomer(&state, sale.CustomerName)
		cust.TotalDebt += sale.DebtAmount
		cust.Transactions = append(cust.Transactions, models.CustomerTransaction{
			ID:     fmt.Sprintf("t_%d", time.Now().UnixMilli()),
			Date:   sale.Date,
			Amount: sale.DebtAmount,
			Type:   models.TransactionDebt,
			Note:   fmt.Sprintf("Invoice #%d", sale.InvoiceNumber),
		})
	}

	return sale, s.saveLocked(ctx, state)
}

// lookupOrCreateCustomer is the customer merge policy: identity is exact name
// equality, so two customers sharing a name share one debt account. Kept as a
// named function so a real identity key can replace it in one place later.
func lookupOrCreateCustomer(state *models.AppState, name string) *models.Customer {
	if name == "" {
		name = "Walk-in customer"
	}
	for i := range state.Customers {
		if state.Customers[i].Name == name {
			return &state.Customers[i]
		}
	}
	state.Customers = append(state.Customers, models.Customer{
		ID:           fmt.Sprintf("c_%d", time.Now().UnixMilli()),
		Name:         name,
		Phone:        "",
		TotalDebt:    0,
		Transactions: []models.CustomerTransaction{},
	})
	return &state.Customers[len(state.Customers)-1]
}

// UpdateProducts replaces the inventory wholesale. Validation is the
// caller's job; this layer only persists.
func (s *Store) UpdateProducts(ctx context.Context, products []models.Product) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.loadLocked(ctx)
	state.Products = products
	return s.saveLocked(ctx, state)
}

// UpdateSuppliers replaces the supplier list wholesale.
func (s *Store) UpdateSuppliers(ctx context.Context, suppliers []models.Supplier) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.loadLocked(ctx)
	state.Suppliers = suppliers
	return s.saveLocked(ctx, state)
}

// UpdateCustomers replaces the customer list wholesale. Debt payments arrive
// through here: the screen adjusts totalDebt and appends the PAYMENT entry,
// then writes the whole list back.
func (s *Store) UpdateCustomers(ctx context.Context, customers []models.Customer) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.loadLocked(ctx)
	state.Customers = customers
	return s.saveLocked(ctx, state)
}

// UpdateEmployees replaces the employee list wholesale.
func (s *Store) UpdateEmployees(ctx context.Context, employees []models.User) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.loadLocked(ctx)
	state.Employees = employees
	return s.saveLocked(ctx, state)
}

// AddSalaryRecord appends one payroll posting. Paying the same employee twice
// in a month is allowed and not flagged.
func (s *Store) AddSalaryRecord(ctx context.Context, record models.SalaryRecord) SaveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, _ := s.loadLocked(ctx)
	state.Salaries = append(state.Salaries, record)
	return s.saveLocked(ctx, state)
}
