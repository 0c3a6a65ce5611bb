package billing

import (
	"context"
	"time"

	"signboard-admin/internal/auth"
	"signboard-admin/internal/models"
	"signboard-admin/internal/pricing"

	"go.uber.org/zap"
)

// CreateQuotation prices the input and saves it as a new quotation. When the
// save fails the priced quotation is still returned with an ErrPersistence
// error so the caller can retry without pricing again.
func (s *Service) CreateQuotation(ctx context.Context, session auth.Session, in DocumentInput) (Quotation, error) {
	if err := in.Validate(false); err != nil {
		return Quotation{}, err
	}

	meta := pricing.NewMeta(pricing.KindQuotation, s.now())
	q := Quotation{
		Document:  s.assembler.Assemble(in.Items, in.Customer, in.DiscountPercentage, meta, in.TaxMode),
		CreatedBy: session.UserID,
	}

	id, err := s.store.AddDocument(ctx, models.CollectionQuotations, q)
	if err != nil {
		s.logger(ctx).Error("failed to save quotation", zap.String("number", meta.Number), zap.Error(err))
		return q, persistenceError("save quotation", err)
	}
	q.ID = id

	s.metrics.DocumentCreated(string(pricing.KindQuotation), q.Totals.GrandTotal)
	s.logger(ctx).Info("quotation created",
		zap.String("id", id),
		zap.String("number", meta.Number),
		zap.Float64("grand_total", q.Totals.GrandTotal),
	)
	return q, nil
}

// GetQuotation returns the quotation with freshly computed totals.
func (s *Service) GetQuotation(ctx context.Context, session auth.Session, id string) (Quotation, error) {
	return s.getQuotation(ctx, session, id)
}

// ListQuotations returns every quotation the caller may see, newest first.
func (s *Service) ListQuotations(ctx context.Context, session auth.Session) ([]Quotation, error) {
	all, err := s.listQuotations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Quotation, 0, len(all))
	for _, q := range all {
		if session.CanAccess(q.CreatedBy) {
			out = append(out, q)
		}
	}
	newestFirst(out, func(q Quotation) time.Time { return q.CreatedAt })
	return out, nil
}

// UpdateQuotation re-prices an edited quotation and overwrites it in place.
// Number, dates and author are kept.
func (s *Service) UpdateQuotation(ctx context.Context, session auth.Session, id string, in DocumentInput) (Quotation, error) {
	if err := in.Validate(true); err != nil {
		return Quotation{}, err
	}
	existing, err := s.getQuotation(ctx, session, id)
	if err != nil {
		return Quotation{}, err
	}

	doc := s.assembler.Assemble(in.Items, in.Customer, in.DiscountPercentage, existing.Meta, in.TaxMode)
	doc.ID = id
	doc.CreatedAt = existing.CreatedAt
	if existing.FlatRate > 0 {
		doc.FlatRate = existing.FlatRate
		doc = s.assembler.Recalculate(doc)
	}

	now := s.now()
	q := Quotation{Document: doc, CreatedBy: existing.CreatedBy, UpdatedAt: &now}

	patch, err := toPatch(q)
	if err != nil {
		return q, persistenceError("encode quotation", err)
	}
	if err := s.store.UpdateDocument(ctx, models.CollectionQuotations, id, patch); err != nil {
		s.logger(ctx).Error("failed to update quotation", zap.String("id", id), zap.Error(err))
		return q, persistenceError("update quotation", err)
	}

	s.logger(ctx).Info("quotation updated", zap.String("id", id), zap.Float64("grand_total", q.Totals.GrandTotal))
	return q, nil
}
