package handlers

import (
	"net/http"

	"signboard-admin/internal/billing"
	"signboard-admin/internal/render"

	"github.com/gin-gonic/gin"
)

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- GET: /api/invoices ---
func (h *Handler) ListInvoices(c *gin.Context) {
	list, err := h.billing.ListInvoices(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// --- POST: /api/invoices ---
func (h *Handler) CreateInvoice(c *gin.Context) {
	var input billing.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	inv, err := h.billing.CreateInvoice(c.Request.Context(), session(c), input)
	if billing.IsRetryable(err) {
		respondRetry(c, inv, err)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

// --- GET: /api/invoices/:id ---
func (h *Handler) GetInvoice(c *gin.Context) {
	inv, err := h.billing.GetInvoice(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// --- PUT: /api/invoices/:id ---
func (h *Handler) UpdateInvoice(c *gin.Context) {
	var input billing.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	inv, err := h.billing.UpdateInvoice(c.Request.Context(), session(c), c.Param("id"), input)
	if billing.IsRetryable(err) {
		respondRetry(c, inv, err)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// --- PATCH: /api/invoices/:id/status ---
func (h *Handler) UpdateInvoiceStatus(c *gin.Context) {
	var input StatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	inv, err := h.billing.UpdateInvoiceStatus(c.Request.Context(), session(c), c.Param("id"), billing.Status(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// --- GET: /api/invoices/:id/pdf ---
func (h *Handler) InvoicePDF(c *gin.Context) {
	inv, err := h.billing.GetInvoice(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := render.DocumentPDF(h.company, inv.Document, render.Sheet{
		Status:  string(inv.Status),
		DueDate: inv.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, inv.Meta.Number+".pdf", pdfContentType, out)
}

// --- GET: /api/invoices/export ---
func (h *Handler) ExportInvoices(c *gin.Context) {
	list, err := h.billing.ListInvoices(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}

	rows := make([]render.ExportRow, 0, len(list))
	for _, inv := range list {
		row := render.RowFromDocument(inv.Document)
		row.Status = string(inv.Status)
		row.DueDate = inv.DueDate
		rows = append(rows, row)
	}
	out, err := render.DocumentsExcel("Invoices", rows)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, "invoices.xlsx", xlsxContentType, out)
}
