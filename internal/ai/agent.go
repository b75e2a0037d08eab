package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-pos-ledger/internal/reports"
	"go-pos-ledger/internal/store"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers a shop question with Gemini, letting the model pull live
// numbers out of the document store through function calls.
func RunAgent(st *store.Store, userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the shop's POS assistant.

	RULES:
	1. UPDATE: If a user asks to change a price by product NAME, do NOT ask for the ID. Instead:
	   - Call 'check_inventory' to find the ID.
	   - Call 'update_product_price' using that ID.

	2. READ: For any question about PRICE, COST, STOCK or product DETAILS:
	   - Call 'check_inventory' and read the answer out of the JSON.
	   - Never claim you cannot get a price. You can, via inventory.

	3. SALES: For revenue or profit questions, use 'get_sales_report'.

	4. DEBTS: For questions about who owes money, use 'check_customer_debts'.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full inventory list. Use this to find ANY product details like ID, Code, Name, Price, Cost, or Stock.",
				},
				{
					Name:        "update_product_price",
					Description: "Update the selling price of a specific product using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeString, Description: "ID of the product"},
							"new_price":  {Type: genai.TypeNumber, Description: "New selling price"},
						},
						Required: []string{"product_id", "new_price"},
					},
				},
				{
					Name:        "get_sales_report",
					Description: "Get total revenue, profit and invoice count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "check_customer_debts",
					Description: "List customers with an outstanding debt balance.",
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {

			if funcCall.Name == "check_inventory" {
				state, _ := st.Load(ctx)

				type SimpleProduct struct {
					ID    string  `json:"id"`
					Code  string  `json:"code"`
					Name  string  `json:"name"`
					Stock int     `json:"stock"`
					Price float64 `json:"price"`
					Cost  float64 `json:"cost"`
				}
				var simpleList []SimpleProduct
				for _, p := range state.Products {
					simpleList = append(simpleList, SimpleProduct{
						ID:    p.ID,
						Code:  p.Code,
						Name:  p.Name,
						Stock: p.Quantity,
						Price: p.SellPrice,
						Cost:  p.BuyPrice,
					})
				}

				jsonBytes, _ := json.Marshal(simpleList)

				toolResp := genai.FunctionResponse{
					Name:     "check_inventory",
					Response: map[string]interface{}{"inventory": string(jsonBytes)},
				}

				finalResp, err := session.SendMessage(ctx, toolResp)
				if err != nil {
					return "", err
				}

				return handleRecursiveToolCalls(ctx, st, session, finalResp), nil
			}

			if funcCall.Name == "update_product_price" {
				return executeUpdatePrice(ctx, st, session, funcCall), nil
			}

			if funcCall.Name == "get_sales_report" {
				return executeSalesReport(ctx, st, session, funcCall), nil
			}

			if funcCall.Name == "check_customer_debts" {
				return executeDebtCheck(ctx, st, session), nil
			}
		}
	}

	return printResponse(resp), nil
}

// --- HELPER FUNCTIONS ---

func handleRecursiveToolCalls(ctx context.Context, st *store.Store, session *genai.ChatSession, resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			if funcCall.Name == "update_product_price" {
				return executeUpdatePrice(ctx, st, session, funcCall)
			}
		}
	}
	return printResponse(resp)
}

func executeUpdatePrice(ctx context.Context, st *store.Store, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	productID, _ := args["product_id"].(string)
	newPrice, _ := args["new_price"].(float64)

	state, _ := st.Load(ctx)
	msg := "Product ID not found"
	for i := range state.Products {
		if state.Products[i].ID == productID {
			state.Products[i].SellPrice = newPrice
			if res := st.UpdateProducts(ctx, state.Products); res.Failed() {
				msg = "Failed to save the new price"
			} else {
				msg = "Success"
			}
			break
		}
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "update_product_price",
		Response: map[string]interface{}{"status": msg, "new_price": newPrice},
	})
	return printResponse(finalResp)
}

func executeSalesReport(ctx context.Context, st *store.Store, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr, _ := args["start_date"].(string)
	endStr, _ := args["end_date"].(string)

	_, err1 := time.Parse("2006-01-02", startStr)
	_, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}

	state, _ := st.Load(ctx)
	summary := reports.Summarize(reports.SalesBetween(state.Sales, startStr, endStr))

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     summary.TotalRevenue,
			"profit":      summary.TotalProfit,
			"sales_count": summary.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func executeDebtCheck(ctx context.Context, st *store.Store, session *genai.ChatSession) string {
	state, _ := st.Load(ctx)

	type debtor struct {
		Name string  `json:"name"`
		Debt float64 `json:"debt"`
	}
	var debtors []debtor
	for _, c := range state.Customers {
		if c.TotalDebt > 0 {
			debtors = append(debtors, debtor{Name: c.Name, Debt: c.TotalDebt})
		}
	}
	jsonBytes, _ := json.Marshal(debtors)

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "check_customer_debts",
		Response: map[string]interface{}{
			"debtors":    string(jsonBytes),
			"total_debt": reports.OutstandingDebt(state.Customers),
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
