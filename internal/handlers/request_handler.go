package handlers

import (
	"errors"
	"net/http"

	"signboard-admin/internal/requests"

	"github.com/gin-gonic/gin"
)

type RequestStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- POST: /api/requests ---
// Filed by an employee on behalf of a customer.
func (h *Handler) SubmitRequest(c *gin.Context) {
	h.submitRequest(c, session(c).UserID)
}

// --- POST: /public/requests ---
// The customer form on the website.
func (h *Handler) SubmitPublicRequest(c *gin.Context) {
	h.submitRequest(c, "")
}

// submitRequest accepts JSON or a multipart form with an optional "file".
func (h *Handler) submitRequest(c *gin.Context, submittedBy string) {
	var input requests.SubmitInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	var file *requests.File
	header, err := c.FormFile("file")
	switch {
	case err == nil:
		body, err := header.Open()
		if err != nil {
			badRequest(c, "Could not read uploaded file")
			return
		}
		defer body.Close()
		file = &requests.File{Name: header.Filename, Body: body}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		badRequest(c, "Could not read uploaded file")
		return
	}

	req, err := h.requests.Submit(c.Request.Context(), submittedBy, input, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// --- GET: /api/requests/:id ---
func (h *Handler) GetRequest(c *gin.Context) {
	req, err := h.requests.Get(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// --- GET: /api/requests/mine ---
func (h *Handler) MyRequests(c *gin.Context) {
	s := session(c)
	list, err := h.requests.ListByUser(c.Request.Context(), s, s.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// --- GET: /api/requests ---
func (h *Handler) ListRequests(c *gin.Context) {
	list, err := h.requests.ListAll(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// --- GET: /api/requests/customers ---
func (h *Handler) ListCustomerRequests(c *gin.Context) {
	list, err := h.requests.ListCustomers(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// --- GET: /api/requests/employees ---
func (h *Handler) ListEmployeeRequests(c *gin.Context) {
	list, err := h.requests.ListEmployees(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// --- GET: /api/requests/employees/:userId ---
func (h *Handler) ListRequestsByEmployee(c *gin.Context) {
	list, err := h.requests.ListByUser(c.Request.Context(), session(c), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// --- PATCH: /api/requests/:id/status ---
func (h *Handler) UpdateRequestStatus(c *gin.Context) {
	var input RequestStatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	req, err := h.requests.UpdateStatus(c.Request.Context(), session(c), c.Param("id"), requests.Status(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
