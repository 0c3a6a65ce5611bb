package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signboard-admin/internal/ai"
	"signboard-admin/internal/attendance"
	"signboard-admin/internal/auth"
	"signboard-admin/internal/billing"
	"signboard-admin/internal/clock"
	"signboard-admin/internal/database"
	"signboard-admin/internal/database/dbtest"
	"signboard-admin/internal/models"
	"signboard-admin/internal/render"
	"signboard-admin/internal/requests"
	"signboard-admin/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ist      = time.FixedZone("IST", 5*3600+1800)
	issuedAt = time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC)
)

type stubAssistant struct {
	reply string
	err   error
}

func (s stubAssistant) Ask(context.Context, auth.Session, string) (string, error) {
	return s.reply, s.err
}

type failingStore struct {
	database.Store
}

func (failingStore) AddDocument(context.Context, string, any) (string, error) {
	return "", errors.New("disk full")
}

type harness struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *auth.Tokens
	clk    *clock.FakeClock
}

type options struct {
	allowRegistration bool
	store             func(database.Store) database.Store
	assistant         Assistant
}

func newHarness(t *testing.T, opts options) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clk := clock.NewFakeClock(issuedAt)
	db := dbtest.New(t)
	var store database.Store = database.NewStore(db, clk)
	if opts.store != nil {
		store = opts.store(store)
	}
	if opts.assistant == nil {
		opts.assistant = stubAssistant{reply: "Sales were Rs. 1,680.00"}
	}

	tokens := auth.NewTokens("test-secret", time.Hour, "signboard-admin", clk)
	files := storage.NewLocal(t.TempDir(), "http://localhost:8080", clk)
	log := zap.NewNop()

	h := New(Deps{
		DB:     db,
		Tokens: tokens,
		Billing: billing.NewService(billing.Params{
			Store:    store,
			Clock:    clk,
			Location: ist,
			Logger:   log,
		}),
		Requests:          requests.NewService(store, files, clk, log),
		Attendance:        attendance.NewService(store, clk, ist, log),
		Files:             files,
		Assistant:         opts.assistant,
		Company:           render.Company{Name: "Mudra Signs"},
		Location:          ist,
		AllowRegistration: opts.allowRegistration,
	})

	r := gin.New()
	h.Routes(r)
	return &harness{router: r, db: db, tokens: tokens, clk: clk}
}

func (h *harness) token(t *testing.T, userID uint, role string) string {
	t.Helper()
	tok, err := h.tokens.GenerateToken(userID, role)
	require.NoError(t, err)
	return tok
}

func (h *harness) admin(t *testing.T) string    { return h.token(t, 1, models.RoleAdmin) }
func (h *harness) employee(t *testing.T) string { return h.token(t, 7, models.RoleEmployee) }

func (h *harness) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return h.serve(req, token)
}

func (h *harness) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) createUser(t *testing.T, username, password, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Username: username, PasswordHash: string(hash), Role: role}
	require.NoError(t, h.db.Create(&user).Error)
	return user
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

var cart = map[string]any{
	"customerDetails": map[string]any{"customerName": "Ravi Traders", "customerMobile": "9876543210"},
	"cart": []map[string]any{
		{"name": "Sign A", "quantity": 3, "price": 500, "sgst": 6, "cgst": 6},
		{"name": "", "quantity": 1, "price": 50},
	},
}

type docResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	DueDate         string `json:"dueDate"`
	QuotationID     string `json:"quotationId"`
	DocumentDetails struct {
		Number string `json:"number"`
		Date   string `json:"date"`
	} `json:"documentDetails"`
	Totals struct {
		Subtotal   float64 `json:"subtotal"`
		GrandTotal float64 `json:"grandTotal"`
	} `json:"totals"`
}

func TestHealth(t *testing.T) {
	h := newHarness(t, options{})
	w := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"online"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	h := newHarness(t, options{})
	h.createUser(t, "asha", "secret1", models.RoleEmployee)

	w := h.do(http.MethodPost, "/login", "", LoginRequest{Username: "asha", Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[struct {
		Token      string            `json:"token"`
		Role       string            `json:"role"`
		Username   string            `json:"username"`
		Attendance attendance.Record `json:"attendance"`
	}](t, w)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, models.RoleEmployee, body.Role)
	assert.Equal(t, attendance.StatusLoggedIn, body.Attendance.Status)

	claims, err := h.tokens.ValidateToken(body.Token)
	require.NoError(t, err)
	assert.Equal(t, auth.Session{UserID: body.Attendance.UserID, Role: models.RoleEmployee}, claims.Session())

	w = h.do(http.MethodPost, "/login", "", LoginRequest{Username: "asha", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/login", "", LoginRequest{Username: "nobody", Password: "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(http.MethodPost, "/login", "", map[string]string{"username": "asha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginAndLogoutTrackAttendance(t *testing.T) {
	h := newHarness(t, options{})
	h.createUser(t, "asha", "secret1", models.RoleEmployee)

	w := h.do(http.MethodPost, "/login", "", LoginRequest{Username: "asha", Password: "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token

	h.clk.Advance(2 * time.Hour)
	w = h.do(http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	out := decode[struct {
		Attendance attendance.Record `json:"attendance"`
	}](t, w)
	assert.Equal(t, int64(120), out.Attendance.TotalMinutes)
	assert.Equal(t, attendance.StatusCompleted, out.Attendance.Status)

	// nothing left open
	w = h.do(http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out"}`, w.Body.String())

	w = h.do(http.MethodGet, "/api/attendance/mine", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]attendance.Record](t, w), 1)

	w = h.do(http.MethodGet, "/api/attendance", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodGet, "/api/attendance", h.admin(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]attendance.Record](t, w), 1)
}

func TestRegister(t *testing.T) {
	h := newHarness(t, options{allowRegistration: true})

	w := h.do(http.MethodPost, "/register", "", LoginRequest{Username: "owner", Password: "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	first := decode[struct {
		User models.User `json:"user"`
	}](t, w)
	assert.Equal(t, models.RoleAdmin, first.User.Role)
	assert.NotContains(t, w.Body.String(), "secret1")

	w = h.do(http.MethodPost, "/register", "", LoginRequest{Username: "helper", Password: "secret2"})
	require.Equal(t, http.StatusCreated, w.Code)
	second := decode[struct {
		User models.User `json:"user"`
	}](t, w)
	assert.Equal(t, models.RoleEmployee, second.User.Role)

	w = h.do(http.MethodPost, "/register", "", LoginRequest{Username: "helper", Password: "secret3"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegister_Disabled(t *testing.T) {
	h := newHarness(t, options{})
	w := h.do(http.MethodPost, "/register", "", LoginRequest{Username: "owner", Password: "secret1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUser(t *testing.T) {
	h := newHarness(t, options{})

	in := CreateUserRequest{Username: "field1", Password: "secret1", Role: models.RoleEmployee}
	w := h.do(http.MethodPost, "/api/users", h.employee(t), in)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodPost, "/api/users", h.admin(t), in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "field1", decode[models.User](t, w).Username)

	in.Username, in.Role = "field2", "owner"
	w = h.do(http.MethodPost, "/api/users", h.admin(t), in)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequiresToken(t *testing.T) {
	h := newHarness(t, options{})
	w := h.do(http.MethodGet, "/api/quotations", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuotationFlow(t *testing.T) {
	h := newHarness(t, options{})
	emp := h.employee(t)

	w := h.do(http.MethodPost, "/api/quotations", emp, cart)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	q := decode[docResponse](t, w)
	assert.NotEmpty(t, q.ID)
	assert.True(t, strings.HasPrefix(q.DocumentDetails.Number, "QTN-"))
	assert.Equal(t, "14/03/2026", q.DocumentDetails.Date)
	assert.InDelta(t, 1680, q.Totals.GrandTotal, 1e-9)

	w = h.do(http.MethodGet, "/api/quotations/"+q.ID, emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 1500, decode[docResponse](t, w).Totals.Subtotal, 1e-9)

	other := h.token(t, 8, models.RoleEmployee)
	w = h.do(http.MethodGet, "/api/quotations/"+q.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodGet, "/api/quotations/missing", emp, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(http.MethodGet, "/api/quotations", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]docResponse](t, w))

	update := map[string]any{
		"customerDetails": map[string]any{"customerName": "Ravi Traders", "customerMobile": "9876543210"},
		"cart":            []map[string]any{{"name": "Sign A", "quantity": 6, "price": 500, "sgst": 6, "cgst": 6}},
	}
	w = h.do(http.MethodPut, "/api/quotations/"+q.ID, emp, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 3360, decode[docResponse](t, w).Totals.GrandTotal, 1e-9)

	w = h.do(http.MethodPost, "/api/quotations/"+q.ID+"/invoice", emp, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[docResponse](t, w)
	assert.True(t, strings.HasPrefix(inv.DocumentDetails.Number, "INV-"))
	assert.Equal(t, "unpaid", inv.Status)
	assert.Equal(t, q.ID, inv.QuotationID)
	assert.Equal(t, "29/03/2026", inv.DueDate)
	assert.InDelta(t, 3360, inv.Totals.GrandTotal, 1e-9)
}

func TestQuotationValidation(t *testing.T) {
	h := newHarness(t, options{})

	w := h.do(http.MethodPost, "/api/quotations", h.employee(t), map[string]any{
		"cart": []map[string]any{{"name": "", "quantity": 1, "price": 50}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[map[string]string](t, w)
	assert.Equal(t, "cart", body["field"])
	assert.Equal(t, billing.ErrNoBillableItems.Error(), body["error"])

	w = h.do(http.MethodPost, "/api/quotations", h.employee(t), map[string]any{
		"cart":               cart["cart"],
		"discountPercentage": 150,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "discountPercentage", decode[map[string]string](t, w)["field"])

	req := httptest.NewRequest(http.MethodPost, "/api/quotations", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	assert.Equal(t, http.StatusBadRequest, h.serve(req, h.employee(t)).Code)
}

func TestCreateQuotation_PersistenceFailureReturnsDocument(t *testing.T) {
	h := newHarness(t, options{store: func(s database.Store) database.Store { return failingStore{s} }})

	w := h.do(http.MethodPost, "/api/quotations", h.employee(t), cart)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decode[struct {
		Error     string      `json:"error"`
		Retryable bool        `json:"retryable"`
		Document  docResponse `json:"document"`
	}](t, w)
	assert.Equal(t, "persistence_failed", body.Error)
	assert.True(t, body.Retryable)
	assert.InDelta(t, 1680, body.Document.Totals.GrandTotal, 1e-9)
	assert.Empty(t, body.Document.ID)
}

func TestQuotationPDFAndExport(t *testing.T) {
	h := newHarness(t, options{})
	admin := h.admin(t)

	w := h.do(http.MethodPost, "/api/quotations", admin, cart)
	require.Equal(t, http.StatusCreated, w.Code)
	q := decode[docResponse](t, w)

	w = h.do(http.MethodGet, "/api/quotations/"+q.ID+"/pdf", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pdfContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), q.DocumentDetails.Number+".pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = h.do(http.MethodGet, "/api/quotations/export", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	number, err := f.GetCellValue("Quotations", "A2")
	require.NoError(t, err)
	assert.Equal(t, q.DocumentDetails.Number, number)
}

func TestInvoices(t *testing.T) {
	h := newHarness(t, options{})
	emp := h.employee(t)

	w := h.do(http.MethodPost, "/api/invoices", emp, cart)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[docResponse](t, w)
	assert.Equal(t, "unpaid", inv.Status)

	w = h.do(http.MethodPatch, "/api/invoices/"+inv.ID+"/status", emp, StatusRequest{Status: "paid"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "paid", decode[docResponse](t, w).Status)

	w = h.do(http.MethodPatch, "/api/invoices/"+inv.ID+"/status", emp, StatusRequest{Status: "refunded"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", decode[map[string]string](t, w)["field"])

	w = h.do(http.MethodGet, "/api/invoices", emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]docResponse](t, w), 1)

	w = h.do(http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = h.do(http.MethodGet, "/api/invoices/export", emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	status, err := f.GetCellValue("Invoices", "J2")
	require.NoError(t, err)
	assert.Equal(t, "paid", status)
}

func TestGenerateInvoice_MissingQuotation(t *testing.T) {
	h := newHarness(t, options{})
	w := h.do(http.MethodPost, "/api/quotations/nope/invoice", h.admin(t), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReports(t *testing.T) {
	h := newHarness(t, options{})
	admin := h.admin(t)

	w := h.do(http.MethodPost, "/api/invoices", admin, cart)
	require.Equal(t, http.StatusCreated, w.Code)

	w = h.do(http.MethodGet, "/api/reports/dashboard?year=2026", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	d := decode[billing.Dashboard](t, w)
	assert.Equal(t, 2026, d.Year)
	assert.Equal(t, 1, d.InvoiceCount)
	assert.InDelta(t, 1680, d.TotalRevenue, 1e-9)

	w = h.do(http.MethodGet, "/api/reports/dashboard?year=soon", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/reports/dashboard", h.employee(t), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodGet, "/api/reports/sales?start=2026-03-14&end=2026-03-14", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	report := decode[billing.SalesReport](t, w)
	assert.Equal(t, 1, report.TotalCount)
	assert.InDelta(t, 1680, report.TotalRevenue, 1e-9)

	w = h.do(http.MethodGet, "/api/reports/sales?start=2026-03-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/reports/sales?start=2026-03-31&end=2026-03-01", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodGet, "/api/reports/recent?limit=3", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]docResponse](t, w), 1)

	w = h.do(http.MethodGet, "/api/reports/recent?limit=0", admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequests(t *testing.T) {
	h := newHarness(t, options{})
	admin, emp := h.admin(t), h.employee(t)

	w := h.do(http.MethodPost, "/public/requests", "", requests.SubmitInput{
		FullName:    "Kiran Rao",
		PhoneNumber: "9123456780",
		CompanyName: "Rao Sweets",
		Address:     "12 MG Road, Pune",
		Request:     requests.KindFullyNotWorking,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	public := decode[requests.Request](t, w)
	assert.Empty(t, public.UserID)
	assert.Equal(t, requests.StatusNotVerified, public.IsVerified)

	body, contentType := multipartBody(t, map[string]string{
		"fullName":    "Asha Patil",
		"phoneNumber": "9876543210",
		"companyName": "Patil Hardware",
		"address":     "Shop 4, FC Road",
		"request":     requests.KindNewSignboard,
		"note":        "Needs a lit board",
	}, "site photo.jpeg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/requests", body)
	req.Header.Set("Content-Type", contentType)
	w = h.serve(req, emp)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	filed := decode[requests.Request](t, w)
	assert.Equal(t, "7", filed.UserID)
	require.NotNil(t, filed.FileURL)
	assert.Equal(t, "http://localhost:8080/uploads/msreports/9876543210/site-photo.jpeg", *filed.FileURL)

	w = h.do(http.MethodPost, "/public/requests", "", requests.SubmitInput{FullName: "K", PhoneNumber: "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "fullName", decode[map[string]string](t, w)["field"])

	w = h.do(http.MethodGet, "/api/requests", emp, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodGet, "/api/requests", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]requests.Request](t, w), 2)

	w = h.do(http.MethodGet, "/api/requests/customers", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]requests.Request](t, w), 1)

	w = h.do(http.MethodGet, "/api/requests/employees/7", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]requests.Request](t, w), 1)

	w = h.do(http.MethodGet, "/api/requests/mine", emp, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]requests.Request](t, w), 1)

	w = h.do(http.MethodGet, "/api/requests/"+public.ID, emp, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodPatch, "/api/requests/"+filed.ID+"/status", admin, RequestStatusRequest{Status: "Completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, requests.StatusCompleted, decode[requests.Request](t, w).IsVerified)

	w = h.do(http.MethodPatch, "/api/requests/"+filed.ID+"/status", admin, RequestStatusRequest{Status: "Done"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodPatch, "/api/requests/missing/status", admin, RequestStatusRequest{Status: "Completed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload(t *testing.T) {
	h := newHarness(t, options{})

	body, contentType := multipartBody(t, nil, "Shop Front.JPG", []byte("image"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := h.serve(req, h.employee(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	want := fmt.Sprintf("http://localhost:8080/uploads/general/%d_shop-front.jpg", issuedAt.Unix())
	assert.Equal(t, want, decode[map[string]string](t, w)["url"])

	body, contentType = multipartBody(t, map[string]string{"note": "x"}, "", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, h.serve(req, h.employee(t)).Code)

	body, contentType = multipartBody(t, nil, "empty.png", nil)
	req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w = h.serve(req, h.employee(t))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskAI(t *testing.T) {
	h := newHarness(t, options{})

	w := h.do(http.MethodPost, "/api/ask", h.admin(t), AskRequest{Message: "How much did we sell today?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"Sales were Rs. 1,680.00"}`, w.Body.String())

	w = h.do(http.MethodPost, "/api/ask", h.employee(t), AskRequest{Message: "hi"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = h.do(http.MethodPost, "/api/ask", h.admin(t), map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	h = newHarness(t, options{assistant: stubAssistant{err: ai.ErrNotConfigured}})
	w = h.do(http.MethodPost, "/api/ask", h.admin(t), AskRequest{Message: "hi"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
