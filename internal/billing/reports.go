package billing

import (
	"context"
	"math"
	"time"

	"signboard-admin/internal/auth"
	"signboard-admin/internal/models"
)

const recentInvoiceCount = 5

var monthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// MonthlyRevenue is one bar of the revenue chart.
type MonthlyRevenue struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// Dashboard is the admin overview. Cancelled invoices are counted in
// StatusCounts but never in revenue.
type Dashboard struct {
	Year              int              `json:"year"`
	TotalRevenue      float64          `json:"totalRevenue"`
	InvoiceCount      int              `json:"invoiceCount"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	QuotationCount    int              `json:"quotationCount"`
	StatusCounts      map[Status]int   `json:"statusCounts"`
	Monthly           []MonthlyRevenue `json:"monthly"`
	RecentInvoices    []Invoice        `json:"recentInvoices"`
}

// SalesReport sums invoices issued in a window.
type SalesReport struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	TotalRevenue      float64   `json:"totalRevenue"`
	TotalTax          float64   `json:"totalTax"`
	TotalCount        int       `json:"totalCount"`
	AverageOrderValue float64   `json:"averageOrderValue"`
}

// Dashboard builds the overview for year; zero means the current year.
func (s *Service) Dashboard(ctx context.Context, session auth.Session, year int) (Dashboard, error) {
	if !session.IsAdmin() {
		return Dashboard{}, ErrForbidden
	}
	if year == 0 {
		year = s.now().Year()
	}

	invoices, err := s.allInvoices(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	quotations, err := s.listQuotations(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		Year:           year,
		QuotationCount: len(quotations),
		StatusCounts:   map[Status]int{StatusUnpaid: 0, StatusPaid: 0, StatusCancelled: 0},
		Monthly:        make([]MonthlyRevenue, 12),
	}
	for i, name := range monthNames {
		d.Monthly[i].Name = name
	}

	for _, inv := range invoices {
		d.StatusCounts[inv.Status]++
		if inv.Status == StatusCancelled {
			continue
		}
		d.InvoiceCount++
		d.TotalRevenue += inv.Totals.GrandTotal
		if created := inv.CreatedAt.In(s.loc); created.Year() == year {
			d.Monthly[created.Month()-1].Total += inv.Totals.GrandTotal
		}
	}
	d.AverageOrderValue = averageOrder(d.TotalRevenue, d.InvoiceCount)

	newestFirst(invoices, func(inv Invoice) time.Time { return inv.CreatedAt })
	d.RecentInvoices = invoices[:min(recentInvoiceCount, len(invoices))]
	return d, nil
}

// SalesReport totals the non-cancelled invoices created in [start, end].
func (s *Service) SalesReport(ctx context.Context, session auth.Session, start, end time.Time) (SalesReport, error) {
	if !session.IsAdmin() {
		return SalesReport{}, ErrForbidden
	}
	if end.Before(start) {
		return SalesReport{}, invalid("end", ErrInvalidRange)
	}

	recs, err := s.store.ListDocumentsBetween(ctx, models.CollectionInvoices, start, end)
	if err != nil {
		return SalesReport{}, persistenceError("sales report", err)
	}

	report := SalesReport{Start: start, End: end}
	for _, inv := range s.listInvoices(ctx, recs) {
		if inv.Status == StatusCancelled {
			continue
		}
		report.TotalCount++
		report.TotalRevenue += inv.Totals.GrandTotal
		report.TotalTax += inv.Totals.TotalTax
	}
	report.AverageOrderValue = averageOrder(report.TotalRevenue, report.TotalCount)
	return report, nil
}

// RecentInvoices returns up to limit invoices, newest first.
func (s *Service) RecentInvoices(ctx context.Context, session auth.Session, limit int) ([]Invoice, error) {
	invoices, err := s.ListInvoices(ctx, session)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(invoices) > limit {
		invoices = invoices[:limit]
	}
	return invoices, nil
}

func averageOrder(revenue float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(revenue / float64(count))
}
