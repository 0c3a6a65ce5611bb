package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"signboard-admin/internal/auth"
	"signboard-admin/internal/models"
	"signboard-admin/internal/pricing"

	"go.uber.org/zap"
)

// GenerateInvoice converts a saved quotation into a new unpaid invoice that
// points back at it. The quotation itself is left as it was.
func (s *Service) GenerateInvoice(ctx context.Context, session auth.Session, quotationID string) (Invoice, error) {
	q, err := s.getQuotation(ctx, session, quotationID)
	if err != nil {
		return Invoice{}, err
	}

	now := s.now()
	doc, err := s.assembler.Convert(q.Document, pricing.NewMeta(pricing.KindInvoice, now))
	if err != nil {
		s.metrics.ConversionFailed("invalid_source")
		s.logger(ctx).Warn("quotation cannot be invoiced", zap.String("quotation_id", quotationID), zap.Error(err))
		return Invoice{}, err
	}

	inv := s.newInvoice(doc, session, now)
	id, err := s.store.AddDocument(ctx, models.CollectionInvoices, inv)
	if err != nil {
		s.metrics.ConversionFailed("persistence")
		s.logger(ctx).Error("failed to save generated invoice",
			zap.String("quotation_id", quotationID), zap.String("number", doc.Meta.Number), zap.Error(err))
		return inv, persistenceError("save invoice", err)
	}
	inv.ID = id

	s.metrics.ConversionSucceeded()
	s.metrics.DocumentCreated(string(pricing.KindInvoice), inv.Totals.GrandTotal)
	s.logger(ctx).Info("invoice generated from quotation",
		zap.String("id", id),
		zap.String("quotation_id", quotationID),
		zap.String("number", doc.Meta.Number),
		zap.Float64("grand_total", inv.Totals.GrandTotal),
	)
	return inv, nil
}

// CreateInvoice prices the input and saves it as an invoice with no quotation
// behind it.
func (s *Service) CreateInvoice(ctx context.Context, session auth.Session, in DocumentInput) (Invoice, error) {
	if err := in.Validate(false); err != nil {
		return Invoice{}, err
	}

	now := s.now()
	meta := pricing.NewMeta(pricing.KindInvoice, now)
	inv := s.newInvoice(s.assembler.Assemble(in.Items, in.Customer, in.DiscountPercentage, meta, in.TaxMode), session, now)

	id, err := s.store.AddDocument(ctx, models.CollectionInvoices, inv)
	if err != nil {
		s.logger(ctx).Error("failed to save invoice", zap.String("number", meta.Number), zap.Error(err))
		return inv, persistenceError("save invoice", err)
	}
	inv.ID = id

	s.metrics.DocumentCreated(string(pricing.KindInvoice), inv.Totals.GrandTotal)
	s.logger(ctx).Info("invoice created",
		zap.String("id", id),
		zap.String("number", meta.Number),
		zap.Float64("grand_total", inv.Totals.GrandTotal),
	)
	return inv, nil
}

func (s *Service) newInvoice(doc pricing.Document, session auth.Session, issued time.Time) Invoice {
	return Invoice{
		Document:  doc,
		Status:    StatusUnpaid,
		DueDate:   issued.AddDate(0, 0, s.dueDays).Format(pricing.DateLayout),
		CreatedBy: session.UserID,
	}
}

// GetInvoice returns the invoice with freshly computed totals.
func (s *Service) GetInvoice(ctx context.Context, session auth.Session, id string) (Invoice, error) {
	return s.getInvoice(ctx, session, id)
}

// ListInvoices returns every invoice the caller may see, newest first.
func (s *Service) ListInvoices(ctx context.Context, session auth.Session) ([]Invoice, error) {
	all, err := s.allInvoices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Invoice, 0, len(all))
	for _, inv := range all {
		if session.CanAccess(inv.CreatedBy) {
			out = append(out, inv)
		}
	}
	newestFirst(out, func(inv Invoice) time.Time { return inv.CreatedAt })
	return out, nil
}

// UpdateInvoice re-prices an edited invoice. Number, dates, status and the
// quotation reference are kept.
func (s *Service) UpdateInvoice(ctx context.Context, session auth.Session, id string, in DocumentInput) (Invoice, error) {
	if err := in.Validate(true); err != nil {
		return Invoice{}, err
	}
	existing, err := s.getInvoice(ctx, session, id)
	if err != nil {
		return Invoice{}, err
	}

	doc := s.assembler.Assemble(in.Items, in.Customer, in.DiscountPercentage, existing.Meta, in.TaxMode)
	doc.ID = id
	doc.CreatedAt = existing.CreatedAt
	doc.SourceQuotationID = existing.SourceQuotationID
	if existing.FlatRate > 0 {
		doc.FlatRate = existing.FlatRate
		doc = s.assembler.Recalculate(doc)
	}

	now := s.now()
	inv := existing
	inv.Document = doc
	inv.UpdatedAt = &now

	patch, err := toPatch(inv)
	if err != nil {
		return inv, persistenceError("encode invoice", err)
	}
	if err := s.store.UpdateDocument(ctx, models.CollectionInvoices, id, patch); err != nil {
		s.logger(ctx).Error("failed to update invoice", zap.String("id", id), zap.Error(err))
		return inv, persistenceError("update invoice", err)
	}

	s.logger(ctx).Info("invoice updated", zap.String("id", id), zap.Float64("grand_total", inv.Totals.GrandTotal))
	return inv, nil
}

// UpdateInvoiceStatus moves an invoice to unpaid, paid or cancelled.
func (s *Service) UpdateInvoiceStatus(ctx context.Context, session auth.Session, id string, status Status) (Invoice, error) {
	if !status.Valid() {
		return Invoice{}, invalid("status", fmt.Errorf("%w: %q", ErrInvalidStatus, status))
	}
	inv, err := s.getInvoice(ctx, session, id)
	if err != nil {
		return Invoice{}, err
	}

	now := s.now()
	err = s.store.UpdateDocument(ctx, models.CollectionInvoices, id, map[string]any{
		"status":    status,
		"updatedAt": now,
	})
	if err != nil {
		return Invoice{}, persistenceError("update invoice status", err)
	}

	previous := inv.Status
	inv.Status = status
	inv.UpdatedAt = &now

	s.metrics.StatusChanged(string(status))
	s.logger(ctx).Info("invoice status changed",
		zap.String("id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	return inv, nil
}

// IsRetryable reports whether err left a computed document the caller can
// resubmit.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrPersistence)
}
