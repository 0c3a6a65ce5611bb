package handlers

import (
	"net/http"

	"signboard-admin/internal/billing"
	"signboard-admin/internal/render"

	"github.com/gin-gonic/gin"
)

const (
	pdfContentType  = "application/pdf"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// --- GET: /api/quotations ---
func (h *Handler) ListQuotations(c *gin.Context) {
	list, err := h.billing.ListQuotations(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// --- POST: /api/quotations ---
func (h *Handler) CreateQuotation(c *gin.Context) {
	var input billing.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	q, err := h.billing.CreateQuotation(c.Request.Context(), session(c), input)
	if billing.IsRetryable(err) {
		respondRetry(c, q, err)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

// --- GET: /api/quotations/:id ---
func (h *Handler) GetQuotation(c *gin.Context) {
	q, err := h.billing.GetQuotation(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// --- PUT: /api/quotations/:id ---
func (h *Handler) UpdateQuotation(c *gin.Context) {
	var input billing.DocumentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid input")
		return
	}

	q, err := h.billing.UpdateQuotation(c.Request.Context(), session(c), c.Param("id"), input)
	if billing.IsRetryable(err) {
		respondRetry(c, q, err)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// --- GET: /api/quotations/:id/pdf ---
func (h *Handler) QuotationPDF(c *gin.Context) {
	q, err := h.billing.GetQuotation(c.Request.Context(), session(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	out, err := render.DocumentPDF(h.company, q.Document, render.Sheet{})
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, q.Meta.Number+".pdf", pdfContentType, out)
}

// --- GET: /api/quotations/export ---
func (h *Handler) ExportQuotations(c *gin.Context) {
	list, err := h.billing.ListQuotations(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}

	rows := make([]render.ExportRow, 0, len(list))
	for _, q := range list {
		rows = append(rows, render.RowFromDocument(q.Document))
	}
	out, err := render.DocumentsExcel("Quotations", rows)
	if err != nil {
		respondError(c, err)
		return
	}
	attachment(c, "quotations.xlsx", xlsxContentType, out)
}

// --- POST: /api/quotations/:id/invoice ---
func (h *Handler) GenerateInvoice(c *gin.Context) {
	inv, err := h.billing.GenerateInvoice(c.Request.Context(), session(c), c.Param("id"))
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

func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}
