// Package requests records sign-board service requests from customers and
// field employees and tracks their verification status.
package requests

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"signboard-admin/internal/auth"
	"signboard-admin/internal/clock"
	"signboard-admin/internal/database"
	"signboard-admin/internal/logger"
	"signboard-admin/internal/models"
	"signboard-admin/internal/storage"

	"go.uber.org/zap"
)

const uploadFolder = "msreports"

var (
	ErrNotFound    = errors.New("not_found")
	ErrForbidden   = errors.New("forbidden")
	ErrPersistence = errors.New("persistence_failed")
	ErrInvalid     = errors.New("invalid_request")
)

// ValidationError names the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

// Status is the verification state shown on the request boards.
type Status string

const (
	StatusNotVerified Status = "Not Verified"
	StatusInProgress  Status = "In Progress"
	StatusCompleted   Status = "Completed"
	StatusRejected    Status = "Rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotVerified, StatusInProgress, StatusCompleted, StatusRejected:
		return true
	}
	return false
}

// Kinds of work a request can ask for.
const (
	KindNewSignboard        = "New Signboard"
	KindPartiallyNotWorking = "Partially Not Working"
	KindFullyNotWorking     = "Fully Not Working"
)

var (
	requestKinds = []string{KindNewSignboard, KindPartiallyNotWorking, KindFullyNotWorking}
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// Request is one stored sign-board request. UserID is empty for requests that
// came straight from a customer.
type Request struct {
	ID          string  `json:"id,omitempty"`
	ReqID       string  `json:"reqId,omitempty"`
	FullName    string  `json:"fullName"`
	PhoneNumber string  `json:"phoneNumber"`
	CompanyName string  `json:"companyName"`
	Address     string  `json:"address"`
	Request     string  `json:"request"`
	Note        string  `json:"note"`
	InvoiceURL  string  `json:"invoiceURL"`
	FileURL     *string `json:"fileURL"`
	FileName    *string `json:"fileName"`
	IsVerified  Status  `json:"isVerified"`
	CreatedAt   int64   `json:"createdAt"`
	UserID      string  `json:"userId,omitempty"`
}

// SubmitInput is the request form.
type SubmitInput struct {
	FullName    string `json:"fullName" form:"fullName"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	CompanyName string `json:"companyName" form:"companyName"`
	Address     string `json:"address" form:"address"`
	Request     string `json:"request" form:"request"`
	Note        string `json:"note" form:"note"`
}

func (in *SubmitInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.CompanyName = strings.TrimSpace(in.CompanyName)
	in.Address = strings.TrimSpace(in.Address)
	in.Request = strings.TrimSpace(in.Request)
	in.Note = strings.TrimSpace(in.Note)
}

// Validate applies the form rules.
func (in SubmitInput) Validate() error {
	switch {
	case utf8.RuneCountInString(in.FullName) < 2:
		return &ValidationError{Field: "fullName", Message: "Full name must be at least 2 characters."}
	case !phonePattern.MatchString(in.PhoneNumber):
		return &ValidationError{Field: "phoneNumber", Message: "Phone number must be 10 digits."}
	case utf8.RuneCountInString(in.CompanyName) < 2:
		return &ValidationError{Field: "companyName", Message: "Company name must be at least 2 characters."}
	case utf8.RuneCountInString(in.Address) < 5:
		return &ValidationError{Field: "address", Message: "Address must be at least 5 characters."}
	case !slices.Contains(requestKinds, in.Request):
		return &ValidationError{Field: "request", Message: "Please select a request type."}
	}
	return nil
}

// File is an optional attachment.
type File struct {
	Name string
	Body io.Reader
}

// FileStore keeps attachments.
type FileStore interface {
	Save(ctx context.Context, folder []string, filename string, r io.Reader) (storage.Object, error)
}

type Service struct {
	store database.Store
	files FileStore
	clock clock.Clock
	log   *zap.Logger
}

func NewService(store database.Store, files FileStore, c clock.Clock, log *zap.Logger) *Service {
	if c == nil {
		c = clock.System()
	}
	if log == nil {
		log = zap.L()
	}
	return &Service{store: store, files: files, clock: c, log: log.Named("requests")}
}

// Submit stores a new request. submittedBy is the employee filing it, or empty
// for a customer. The attachment, if any, lands under msreports/<phone>/.
func (s *Service) Submit(ctx context.Context, submittedBy string, in SubmitInput, file *File) (Request, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return Request{}, err
	}

	req := Request{
		FullName:    in.FullName,
		PhoneNumber: in.PhoneNumber,
		CompanyName: in.CompanyName,
		Address:     in.Address,
		Request:     in.Request,
		Note:        in.Note,
		IsVerified:  StatusNotVerified,
		CreatedAt:   s.clock.Now().UnixMilli(),
		UserID:      submittedBy,
	}

	if file != nil && file.Body != nil && s.files != nil {
		obj, err := s.files.Save(ctx, []string{uploadFolder, in.PhoneNumber}, file.Name, file.Body)
		if err != nil {
			return Request{}, fmt.Errorf("store attachment: %w", err)
		}
		req.FileURL = &obj.URL
		req.FileName = &obj.Name
	}

	id, err := s.store.AddDocument(ctx, models.CollectionRequests, req)
	if err != nil {
		return req, fmt.Errorf("%w: save request: %w", ErrPersistence, err)
	}
	req.ID = id
	req.ReqID = id

	if err := s.store.UpdateDocument(ctx, models.CollectionRequests, id, map[string]any{"reqId": id}); err != nil {
		s.logger(ctx).Warn("request saved without reqId", zap.String("id", id), zap.Error(err))
	}

	s.logger(ctx).Info("request submitted",
		zap.String("id", id),
		zap.String("kind", req.Request),
		zap.Bool("from_employee", submittedBy != ""),
	)
	return req, nil
}

// Get returns one request. Employees may only read their own.
func (s *Service) Get(ctx context.Context, session auth.Session, id string) (Request, error) {
	var req Request
	err := s.store.GetDocument(ctx, models.CollectionRequests, id, &req)
	if errors.Is(err, database.ErrDocumentNotFound) {
		return Request{}, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Request{}, fmt.Errorf("%w: read request: %w", ErrPersistence, err)
	}
	if !session.CanAccess(req.UserID) {
		return Request{}, ErrForbidden
	}
	fill(id, &req)
	return req, nil
}

// ListAll returns every request.
func (s *Service) ListAll(ctx context.Context, session auth.Session) ([]Request, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.list(ctx, func(Request) bool { return true })
}

// ListCustomers returns the requests customers filed themselves.
func (s *Service) ListCustomers(ctx context.Context, session auth.Session) ([]Request, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.list(ctx, func(r Request) bool { return r.UserID == "" })
}

// ListEmployees returns the requests filed by any employee.
func (s *Service) ListEmployees(ctx context.Context, session auth.Session) ([]Request, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.list(ctx, func(r Request) bool { return r.UserID != "" })
}

// ListByUser returns the leads one employee filed.
func (s *Service) ListByUser(ctx context.Context, session auth.Session, userID string) ([]Request, error) {
	if userID == "" || !session.CanAccess(userID) {
		return nil, ErrForbidden
	}
	return s.list(ctx, func(r Request) bool { return r.UserID == userID })
}

// UpdateStatus sets isVerified.
func (s *Service) UpdateStatus(ctx context.Context, session auth.Session, id string, status Status) (Request, error) {
	if !session.IsAdmin() {
		return Request{}, ErrForbidden
	}
	if !status.Valid() {
		return Request{}, &ValidationError{Field: "isVerified", Message: fmt.Sprintf("unknown status %q", status)}
	}

	err := s.store.UpdateDocument(ctx, models.CollectionRequests, id, map[string]any{"isVerified": status})
	if errors.Is(err, database.ErrDocumentNotFound) {
		return Request{}, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	if err != nil {
		s.logger(ctx).Error("error updating status", zap.String("id", id), zap.Error(err))
		return Request{}, fmt.Errorf("%w: update status: %w", ErrPersistence, err)
	}

	s.logger(ctx).Info("request status changed", zap.String("id", id), zap.String("status", string(status)))
	return s.Get(ctx, session, id)
}

func (s *Service) list(ctx context.Context, keep func(Request) bool) ([]Request, error) {
	recs, err := s.store.ListDocuments(ctx, models.CollectionRequests)
	if err != nil {
		return nil, fmt.Errorf("%w: list requests: %w", ErrPersistence, err)
	}
	out := make([]Request, 0, len(recs))
	for _, rec := range recs {
		var req Request
		if err := json.Unmarshal(rec.Data, &req); err != nil {
			s.logger(ctx).Warn("skipping undecodable request", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		fill(rec.ID, &req)
		if keep(req) {
			out = append(out, req)
		}
	}
	slices.SortStableFunc(out, func(a, b Request) int {
		switch {
		case a.CreatedAt > b.CreatedAt:
			return -1
		case a.CreatedAt < b.CreatedAt:
			return 1
		}
		return 0
	})
	return out, nil
}

func fill(id string, req *Request) {
	req.ID = id
	if req.ReqID == "" {
		req.ReqID = id
	}
	if req.IsVerified == "" {
		req.IsVerified = StatusNotVerified
	}
}

func (s *Service) logger(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, s.log)
}
