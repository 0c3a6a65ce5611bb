// Package attendance records employee log-in and log-out times.
package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"signboard-admin/internal/auth"
	"signboard-admin/internal/clock"
	"signboard-admin/internal/database"
	"signboard-admin/internal/logger"
	"signboard-admin/internal/models"

	"go.uber.org/zap"
)

var (
	ErrForbidden     = errors.New("forbidden")
	ErrNoOpenSession = errors.New("no_open_session")
)

const (
	StatusLoggedIn      = "logged_in"
	StatusCompleted     = "completed"
	StatusAutoCompleted = "auto_completed"
)

// Record is one working session. TotalMinutes keeps the historical
// "totalHours" key but has always held minutes.
type Record struct {
	ID            string     `json:"id,omitempty"`
	UserID        string     `json:"userId"`
	Date          time.Time  `json:"date"`
	LoginTime     time.Time  `json:"loginTime"`
	LogoutTime    *time.Time `json:"logoutTime"`
	TotalMinutes  int64      `json:"totalHours"`
	AutoLoggedOut bool       `json:"autoLoggedOut"`
	Status        string     `json:"status"`
}

func (r Record) Open() bool {
	return r.LogoutTime == nil
}

type Service struct {
	store database.Store
	clock clock.Clock
	loc   *time.Location
	log   *zap.Logger
}

func NewService(store database.Store, c clock.Clock, loc *time.Location, log *zap.Logger) *Service {
	if c == nil {
		c = clock.System()
	}
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.L()
	}
	return &Service{store: store, clock: c, loc: loc, log: log.Named("attendance")}
}

// MarkLogin opens today's record for userID unless one already exists.
func (s *Service) MarkLogin(ctx context.Context, userID string) (Record, bool, error) {
	now := s.clock.Now()
	start := startOfDay(now.In(s.loc))
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)

	recs, err := s.store.ListDocumentsBetween(ctx, models.CollectionAttendance, start, end)
	if err != nil {
		return Record{}, false, fmt.Errorf("find today's attendance: %w", err)
	}
	for _, r := range s.decode(ctx, recs) {
		if r.UserID == userID {
			return r, false, nil
		}
	}

	rec := Record{
		UserID:    userID,
		Date:      now,
		LoginTime: now,
		Status:    StatusLoggedIn,
	}
	id, err := s.store.AddDocument(ctx, models.CollectionAttendance, rec)
	if err != nil {
		return Record{}, false, fmt.Errorf("mark attendance: %w", err)
	}
	rec.ID = id

	s.logger(ctx).Info("attendance marked", zap.String("user_id", userID), zap.String("id", id))
	return rec, true, nil
}

// MarkLogout closes the latest open record of userID.
func (s *Service) MarkLogout(ctx context.Context, userID string) (Record, error) {
	all, err := s.all(ctx)
	if err != nil {
		return Record{}, err
	}

	var open *Record
	for i := range all {
		r := &all[i]
		if r.UserID != userID || !r.Open() {
			continue
		}
		if open == nil || r.LoginTime.After(open.LoginTime) {
			open = r
		}
	}
	if open == nil {
		return Record{}, ErrNoOpenSession
	}

	rec, err := s.close(ctx, *open, s.clock.Now(), StatusCompleted)
	if err != nil {
		return Record{}, err
	}
	s.logger(ctx).Info("logout marked", zap.String("user_id", userID), zap.Int64("minutes", rec.TotalMinutes))
	return rec, nil
}

// AutoLogout closes every open record whose login day has ended, stamping the
// logout at the midnight that ended it. It returns how many were closed.
func (s *Service) AutoLogout(ctx context.Context) (int, error) {
	all, err := s.all(ctx)
	if err != nil {
		return 0, err
	}

	now := s.clock.Now()
	closed := 0
	for _, r := range all {
		if !r.Open() {
			continue
		}
		midnight := startOfDay(r.LoginTime.In(s.loc)).AddDate(0, 0, 1)
		if midnight.After(now) {
			continue
		}
		if _, err := s.close(ctx, r, midnight, StatusAutoCompleted); err != nil {
			return closed, err
		}
		closed++
	}

	if closed > 0 {
		s.logger(ctx).Info("auto logout sweep", zap.Int("closed", closed))
	}
	return closed, nil
}

// RunAutoLogout sweeps every interval until ctx is cancelled.
func (s *Service) RunAutoLogout(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.AutoLogout(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("auto logout sweep failed", zap.Error(err))
			}
		}
	}
}

// History returns userID's records, newest first.
func (s *Service) History(ctx context.Context, session auth.Session, userID string) ([]Record, error) {
	if !session.CanAccess(userID) {
		return nil, ErrForbidden
	}
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := slices.DeleteFunc(all, func(r Record) bool { return r.UserID != userID })
	return out, nil
}

// HistoryAll returns every record, newest first.
func (s *Service) HistoryAll(ctx context.Context, session auth.Session) ([]Record, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.all(ctx)
}

func (s *Service) close(ctx context.Context, r Record, at time.Time, status string) (Record, error) {
	r.LogoutTime = &at
	r.TotalMinutes = int64(math.Round(at.Sub(r.LoginTime).Minutes()))
	r.Status = status
	r.AutoLoggedOut = status == StatusAutoCompleted

	patch := map[string]any{
		"logoutTime": at,
		"totalHours": r.TotalMinutes,
		"status":     status,
	}
	if r.AutoLoggedOut {
		patch["autoLoggedOut"] = true
	}
	if err := s.store.UpdateDocument(ctx, models.CollectionAttendance, r.ID, patch); err != nil {
		return Record{}, fmt.Errorf("close attendance %s: %w", r.ID, err)
	}
	return r, nil
}

func (s *Service) all(ctx context.Context) ([]Record, error) {
	recs, err := s.store.ListDocuments(ctx, models.CollectionAttendance)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	out := s.decode(ctx, recs)
	slices.SortStableFunc(out, func(a, b Record) int {
		return b.LoginTime.Compare(a.LoginTime)
	})
	return out, nil
}

func (s *Service) decode(ctx context.Context, recs []models.Record) []Record {
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		var r Record
		if err := json.Unmarshal(rec.Data, &r); err != nil {
			s.logger(ctx).Warn("skipping undecodable attendance record", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		r.ID = rec.ID
		out = append(out, r)
	}
	return out
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, s.log)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
