package billing

import (
	"context"
	"testing"
	"time"

	"signboard-admin/internal/metrics"
	"signboard-admin/internal/models"
	"signboard-admin/internal/pricing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenerateInvoice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q, err := f.svc.CreateQuotation(ctx, employee, cartInput())
	require.NoError(t, err)

	f.clk.Advance(24 * time.Hour)
	inv, err := f.svc.GenerateInvoice(ctx, employee, q.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, inv.ID)
	assert.NotEqual(t, q.ID, inv.ID)
	assert.Equal(t, q.ID, inv.SourceQuotationID)
	assert.Equal(t, StatusUnpaid, inv.Status)
	assert.Equal(t, pricing.KindInvoice, inv.Meta.Kind)
	assert.Regexp(t, `^INV-\d{6}$`, inv.Meta.Number)
	assert.Equal(t, "15/03/2026", inv.Meta.Date)
	assert.Equal(t, "30/03/2026", inv.DueDate)
	assert.Equal(t, "7", inv.CreatedBy)
	assert.Equal(t, q.Items, inv.Items)
	assert.Equal(t, q.Customer, inv.Customer)
	assert.Equal(t, q.DiscountPercentage, inv.DiscountPercentage)
	assert.Equal(t, q.Totals, inv.Totals)

	after, err := f.svc.GetQuotation(ctx, employee, q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.Meta, after.Meta)
	assert.Nil(t, after.UpdatedAt)

	stored, err := f.svc.GetInvoice(ctx, employee, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, stored.SourceQuotationID)
	assert.Equal(t, "30/03/2026", stored.DueDate)
}

func TestGenerateInvoice_InvalidSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.store.AddDocument(ctx, models.CollectionQuotations, map[string]any{
		"customerDetails": map[string]any{"customerName": "Empty cart", "customerMobile": "1"},
		"cart":            []any{},
	})
	require.NoError(t, err)

	_, err = f.svc.GenerateInvoice(ctx, admin, id)
	assert.ErrorIs(t, err, pricing.ErrInvalidSourceDocument)

	invoices, err := f.svc.ListInvoices(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, invoices)

	_, err = f.svc.GenerateInvoice(ctx, admin, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGenerateInvoice_RecordsMetrics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	svc := NewService(Params{
		Store:    f.store,
		Clock:    f.clk,
		Location: ist,
		Metrics:  metrics.NewBilling(reg, metrics.Config{ServiceName: "test"}),
		Logger:   zap.NewNop(),
	})

	q, err := svc.CreateQuotation(ctx, admin, flatInput())
	require.NoError(t, err)
	_, err = svc.GenerateInvoice(ctx, admin, q.ID)
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "billing_documents_created_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(reg, "billing_invoice_conversions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateInvoice(t *testing.T) {
	f := newFixture(t)

	inv, err := f.svc.CreateInvoice(context.Background(), admin, flatInput())
	require.NoError(t, err)

	assert.Empty(t, inv.SourceQuotationID)
	assert.Equal(t, StatusUnpaid, inv.Status)
	assert.Equal(t, "29/03/2026", inv.DueDate)
	assert.InDelta(t, 900, inv.Totals.AmountAfterDiscount, delta)
	assert.InDelta(t, 162, inv.Totals.GSTAmount, delta)
	assert.InDelta(t, 1062, inv.Totals.GrandTotal, delta)
	assert.Equal(t, "INR One Thousand Sixty Two Only.", inv.AmountInWords())
}

func TestUpdateInvoice_KeepsStatusAndSource(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q, err := f.svc.CreateQuotation(ctx, admin, flatInput())
	require.NoError(t, err)
	inv, err := f.svc.GenerateInvoice(ctx, admin, q.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateInvoiceStatus(ctx, admin, inv.ID, StatusPaid)
	require.NoError(t, err)

	edit := flatInput()
	edit.Items = append(edit.Items, pricing.LineItem{Name: "Frame", Quantity: 1, UnitPrice: 1000})

	updated, err := f.svc.UpdateInvoice(ctx, admin, inv.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, updated.Status)
	assert.Equal(t, q.ID, updated.SourceQuotationID)
	assert.Equal(t, inv.Meta, updated.Meta)
	assert.InDelta(t, 2124, updated.Totals.GrandTotal, delta)

	got, err := f.svc.GetInvoice(ctx, admin, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	assert.Len(t, got.Items, 2)
	assert.InDelta(t, 2124, got.Totals.GrandTotal, delta)
}

func TestUpdateInvoiceStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.svc.CreateInvoice(ctx, employee, flatInput())
	require.NoError(t, err)

	updated, err := f.svc.UpdateInvoiceStatus(ctx, employee, inv.ID, StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, updated.Status)

	got, err := f.svc.GetInvoice(ctx, employee, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
	require.NotNil(t, got.UpdatedAt)

	_, err = f.svc.UpdateInvoiceStatus(ctx, employee, inv.ID, "refunded")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = f.svc.UpdateInvoiceStatus(ctx, other, inv.ID, StatusCancelled)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListInvoices_Scoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateInvoice(ctx, admin, flatInput())
	require.NoError(t, err)
	f.clk.Advance(time.Minute)
	mine, err := f.svc.CreateInvoice(ctx, employee, cartInput())
	require.NoError(t, err)

	all, err := f.svc.ListInvoices(ctx, admin)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, mine.ID, all[0].ID)

	own, err := f.svc.ListInvoices(ctx, employee)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)
}
