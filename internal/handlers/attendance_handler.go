package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/attendance/mine ---
func (h *Handler) MyAttendance(c *gin.Context) {
	s := session(c)
	history, err := h.attendance.History(c.Request.Context(), s, s.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// --- GET: /api/attendance ---
func (h *Handler) ListAttendance(c *gin.Context) {
	history, err := h.attendance.HistoryAll(c.Request.Context(), session(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// --- POST: /api/attendance/auto-logout ---
// Runs the midnight sweep on demand.
func (h *Handler) AutoLogout(c *gin.Context) {
	closed, err := h.attendance.AutoLogout(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"closed": closed})
}
