package store

import (
	"bytes"
	"encoding/json"

	"go-pos-ledger/internal/models"
)

// rawDocument mirrors AppState but keeps every list element opaque, so a
// half-corrupted document can still be salvaged entry by entry. Employees is
// a pointer: an absent field means "never initialized" and gets the seed
// admin, while an explicitly empty list stays empty.
type rawDocument struct {
	CurrentUser       json.RawMessage    `json:"currentUser"`
	Products          []json.RawMessage  `json:"products"`
	Suppliers         []json.RawMessage  `json:"suppliers"`
	Employees         *[]json.RawMessage `json:"employees"`
	Sales             []json.RawMessage  `json:"sales"`
	Customers         []json.RawMessage  `json:"customers"`
	Salaries          []json.RawMessage  `json:"salaries"`
	LastInvoiceNumber int                `json:"lastInvoiceNumber"`
}

// rawCustomer defers the transaction list so it can be cleaned the same way
// as the top-level collections.
type rawCustomer struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Phone        string            `json:"phone"`
	TotalDebt    float64           `json:"totalDebt"`
	Transactions []json.RawMessage `json:"transactions"`
}

// parseDocument decodes a serialized document. (nil, nil) means the source
// held nothing usable but was not an error: empty body or JSON null.
func parseDocument(data []byte) (*rawDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var doc rawDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// cleanList drops null and non-object entries, then decodes the survivors.
// Entries that fail to decode are dropped too; order of the rest is kept.
func cleanList[T any](raw []json.RawMessage) []T {
	out := make([]T, 0, len(raw))
	for _, entry := range raw {
		trimmed := bytes.TrimSpace(entry)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var v T
		if err := json.Unmarshal(trimmed, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// buildState merges a raw document with the compile-time defaults so callers
// never see a missing collection. A nil doc yields the seed state.
func buildState(doc *rawDocument) models.AppState {
	state := models.DefaultState()
	if doc == nil {
		return state
	}

	state.Products = cleanList[models.Product](doc.Products)
	state.Suppliers = cleanList[models.Supplier](doc.Suppliers)
	state.Sales = cleanList[models.Sale](doc.Sales)
	state.Salaries = cleanList[models.SalaryRecord](doc.Salaries)
	state.LastInvoiceNumber = doc.LastInvoiceNumber

	// Customers get a second pass: balance defaults to zero and the ledger
	// entries are cleaned like any other list.
	rawCustomers := cleanList[rawCustomer](doc.Customers)
	state.Customers = make([]models.Customer, 0, len(rawCustomers))
	for _, rc := range rawCustomers {
		state.Customers = append(state.Customers, models.Customer{
			ID:           rc.ID,
			Name:         rc.Name,
			Phone:        rc.Phone,
			TotalDebt:    rc.TotalDebt,
			Transactions: cleanList[models.CustomerTransaction](rc.Transactions),
		})
	}

	// Only a document that never had an employees field gets the seed admin.
	if doc.Employees != nil {
		state.Employees = cleanList[models.User](*doc.Employees)
	}

	state.CurrentUser = nil
	if trimmed := bytes.TrimSpace(doc.CurrentUser); len(trimmed) > 0 && trimmed[0] == '{' {
		var u models.User
		if err := json.Unmarshal(trimmed, &u); err == nil {
			state.CurrentUser = &u
		}
	}

	return state
}
