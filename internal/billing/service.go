// Package billing stores quotations and invoices and answers the dashboard
// queries over them. All money math is delegated to the pricing package.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"signboard-admin/internal/auth"
	"signboard-admin/internal/clock"
	"signboard-admin/internal/database"
	"signboard-admin/internal/logger"
	"signboard-admin/internal/metrics"
	"signboard-admin/internal/models"
	"signboard-admin/internal/pricing"

	"go.uber.org/zap"
)

const DefaultDueDays = 15

type Params struct {
	Store    database.Store
	Clock    clock.Clock
	Location *time.Location
	FlatRate float64
	DueDays  int
	Metrics  *metrics.BillingMetrics
	Logger   *zap.Logger
}

type Service struct {
	store     database.Store
	assembler *pricing.Assembler
	clock     clock.Clock
	loc       *time.Location
	dueDays   int
	metrics   *metrics.BillingMetrics
	log       *zap.Logger
}

func NewService(p Params) *Service {
	if p.Clock == nil {
		p.Clock = clock.System()
	}
	if p.Location == nil {
		p.Location = time.Local
	}
	if p.FlatRate <= 0 {
		p.FlatRate = pricing.DefaultFlatRate
	}
	if p.DueDays <= 0 {
		p.DueDays = DefaultDueDays
	}
	if p.Logger == nil {
		p.Logger = zap.L()
	}
	return &Service{
		store:     p.Store,
		assembler: pricing.NewAssembler(p.Clock, p.FlatRate),
		clock:     p.Clock,
		loc:       p.Location,
		dueDays:   p.DueDays,
		metrics:   p.Metrics,
		log:       p.Logger.Named("billing"),
	}
}

func (s *Service) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, s.log)
}

func (s *Service) getQuotation(ctx context.Context, session auth.Session, id string) (Quotation, error) {
	var q Quotation
	if err := s.get(ctx, models.CollectionQuotations, id, &q); err != nil {
		return Quotation{}, err
	}
	if !session.CanAccess(q.CreatedBy) {
		return Quotation{}, ErrForbidden
	}
	q.ID = id
	q.Document = s.assembler.Recalculate(q.Document)
	return q, nil
}

func (s *Service) getInvoice(ctx context.Context, session auth.Session, id string) (Invoice, error) {
	var inv Invoice
	if err := s.get(ctx, models.CollectionInvoices, id, &inv); err != nil {
		return Invoice{}, err
	}
	if !session.CanAccess(inv.CreatedBy) {
		return Invoice{}, ErrForbidden
	}
	inv.ID = id
	inv.Document = s.assembler.Recalculate(inv.Document)
	if inv.Status == "" {
		inv.Status = StatusUnpaid
	}
	return inv, nil
}

func (s *Service) get(ctx context.Context, collection, id string, dest any) error {
	err := s.store.GetDocument(ctx, collection, id, dest)
	if errors.Is(err, database.ErrDocumentNotFound) {
		return fmt.Errorf("%s %s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return persistenceError("read "+collection, err)
	}
	return nil
}

// decodeAll turns records into T, recomputing totals through fix. Records that
// no longer decode are logged and skipped so one bad row cannot hide the rest.
func decodeAll[T any](ctx context.Context, s *Service, recs []models.Record, fix func(id string, v *T)) []T {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		var v T
		if err := json.Unmarshal(rec.Data, &v); err != nil {
			s.logger(ctx).Warn("skipping undecodable record",
				zap.String("collection", rec.Collection), zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		fix(rec.ID, &v)
		out = append(out, v)
	}
	return out
}

func (s *Service) listQuotations(ctx context.Context) ([]Quotation, error) {
	recs, err := s.store.ListDocuments(ctx, models.CollectionQuotations)
	if err != nil {
		return nil, persistenceError("list quotations", err)
	}
	return decodeAll(ctx, s, recs, func(id string, q *Quotation) {
		q.ID = id
		q.Document = s.assembler.Recalculate(q.Document)
	}), nil
}

func (s *Service) listInvoices(ctx context.Context, recs []models.Record) []Invoice {
	return decodeAll(ctx, s, recs, func(id string, inv *Invoice) {
		inv.ID = id
		inv.Document = s.assembler.Recalculate(inv.Document)
		if inv.Status == "" {
			inv.Status = StatusUnpaid
		}
	})
}

func (s *Service) allInvoices(ctx context.Context) ([]Invoice, error) {
	recs, err := s.store.ListDocuments(ctx, models.CollectionInvoices)
	if err != nil {
		return nil, persistenceError("list invoices", err)
	}
	return s.listInvoices(ctx, recs), nil
}

// newestFirst orders by creation time, latest on top.
func newestFirst[T any](items []T, createdAt func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return createdAt(b).Compare(createdAt(a))
	})
}

// toPatch flattens v into the top-level keys UpdateDocument merges.
func toPatch(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	patch := map[string]any{}
	if err := json.Unmarshal(raw, &patch); err != nil {
		return nil, err
	}
	delete(patch, "id")
	return patch, nil
}
