package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"signboard-admin/internal/auth"
	"signboard-admin/internal/billing"
	"signboard-admin/internal/pricing"

	"github.com/google/generative-ai-go/genai"
)

const dateLayout = "2006-01-02"

var ErrUnknownTool = errors.New("unknown_tool")

// Reports is the slice of the billing service the assistant may read.
type Reports interface {
	SalesReport(ctx context.Context, session auth.Session, start, end time.Time) (billing.SalesReport, error)
	RecentInvoices(ctx context.Context, session auth.Session, limit int) ([]billing.Invoice, error)
	Dashboard(ctx context.Context, session auth.Session, year int) (billing.Dashboard, error)
}

// Toolbox runs the functions declared to the model on behalf of one user.
type Toolbox struct {
	reports Reports
	loc     *time.Location
}

func NewToolbox(reports Reports, loc *time.Location) *Toolbox {
	if loc == nil {
		loc = time.Local
	}
	return &Toolbox{reports: reports, loc: loc}
}

// Declarations describes every tool the model can call.
func (t *Toolbox) Declarations() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "get_sales_report",
					Description: "Get invoiced revenue, tax and invoice count for a date range. Cancelled invoices are excluded.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD), inclusive"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
				{
					Name:        "list_recent_invoices",
					Description: "List the most recent invoices with customer, number, date, status and grand total.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"limit": {Type: genai.TypeInteger, Description: "How many invoices to return (1-20)"},
						},
					},
				},
				{
					Name:        "get_dashboard",
					Description: "Get yearly revenue by month, invoice status counts and quotation count.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"year": {Type: genai.TypeInteger, Description: "Calendar year, e.g. 2026"},
						},
					},
				},
				{
					Name:        "amount_in_words",
					Description: "Spell a rupee amount the way it is printed on invoices.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"amount": {Type: genai.TypeNumber, Description: "Amount in rupees"},
						},
						Required: []string{"amount"},
					},
				},
			},
		},
	}
}

// Call executes one function call and returns a JSON object for the model.
func (t *Toolbox) Call(ctx context.Context, session auth.Session, call genai.FunctionCall) (map[string]any, error) {
	switch call.Name {
	case "get_sales_report":
		start, err := t.date(call.Args, "start_date")
		if err != nil {
			return nil, err
		}
		end, err := t.date(call.Args, "end_date")
		if err != nil {
			return nil, err
		}
		report, err := t.reports.SalesReport(ctx, session, start, end.Add(24*time.Hour-time.Nanosecond))
		if err != nil {
			return nil, err
		}
		return toObject(map[string]any{
			"revenue":       report.TotalRevenue,
			"tax":           report.TotalTax,
			"invoice_count": report.TotalCount,
			"average_order": report.AverageOrderValue,
		})

	case "list_recent_invoices":
		limit := intArg(call.Args, "limit", 5)
		if limit < 1 || limit > 20 {
			limit = 5
		}
		invoices, err := t.reports.RecentInvoices(ctx, session, limit)
		if err != nil {
			return nil, err
		}
		type row struct {
			Number   string  `json:"number"`
			Date     string  `json:"date"`
			Customer string  `json:"customer"`
			Status   string  `json:"status"`
			Total    float64 `json:"grand_total"`
		}
		rows := make([]row, 0, len(invoices))
		for _, inv := range invoices {
			rows = append(rows, row{
				Number:   inv.Meta.Number,
				Date:     inv.Meta.Date,
				Customer: inv.Customer.Name,
				Status:   string(inv.Status),
				Total:    inv.Totals.GrandTotal,
			})
		}
		return toObject(map[string]any{"invoices": rows})

	case "get_dashboard":
		d, err := t.reports.Dashboard(ctx, session, intArg(call.Args, "year", 0))
		if err != nil {
			return nil, err
		}
		return toObject(map[string]any{
			"year":            d.Year,
			"revenue":         d.TotalRevenue,
			"invoice_count":   d.InvoiceCount,
			"average_order":   d.AverageOrderValue,
			"quotation_count": d.QuotationCount,
			"status_counts":   d.StatusCounts,
			"monthly":         d.Monthly,
		})

	case "amount_in_words":
		amount, ok := call.Args["amount"].(float64)
		if !ok {
			return nil, fmt.Errorf("amount must be a number")
		}
		return map[string]any{
			"words":     pricing.AmountInWords(amount),
			"formatted": pricing.FormatINR(amount),
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
}

func (t *Toolbox) date(args map[string]any, key string) (time.Time, error) {
	s, _ := args[key].(string)
	d, err := time.ParseInLocation(dateLayout, s, t.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", key)
	}
	return d, nil
}

// intArg reads a JSON number argument; the model sends integers as float64.
func intArg(args map[string]any, key string, def int) int {
	v, ok := args[key].(float64)
	if !ok {
		return def
	}
	return int(v)
}

// toObject converts typed results into the plain maps the client can encode.
func toObject(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
