package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const reportDateLayout = "2006-01-02"

// --- GET: /api/reports/dashboard?year=2026 ---
func (h *Handler) Dashboard(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 9999 {
			badRequest(c, "year must be a four-digit year")
			return
		}
		year = y
	}

	d, err := h.billing.Dashboard(c.Request.Context(), session(c), year)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// --- GET: /api/reports/sales?start=2026-03-01&end=2026-03-31 ---
// Both days are inclusive and read in the business time zone.
func (h *Handler) SalesReport(c *gin.Context) {
	start, err := time.ParseInLocation(reportDateLayout, c.Query("start"), h.loc)
	if err != nil {
		badRequest(c, "start must be YYYY-MM-DD")
		return
	}
	end, err := time.ParseInLocation(reportDateLayout, c.Query("end"), h.loc)
	if err != nil {
		badRequest(c, "end must be YYYY-MM-DD")
		return
	}
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)

	report, err := h.billing.SalesReport(c.Request.Context(), session(c), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET: /api/reports/recent?limit=5 ---
func (h *Handler) RecentInvoices(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 || limit > 50 {
		badRequest(c, "limit must be between 1 and 50")
		return
	}

	list, err := h.billing.RecentInvoices(c.Request.Context(), session(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
