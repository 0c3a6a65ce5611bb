package handlers

import (
	"errors"
	"net/http"

	"signboard-admin/internal/ai"
	"signboard-admin/internal/attendance"
	"signboard-admin/internal/billing"
	"signboard-admin/internal/pricing"
	"signboard-admin/internal/requests"
	"signboard-admin/internal/storage"

	"github.com/gin-gonic/gin"
)

// respondError writes the status and body for a service error. Unknown errors
// become a 500 and are attached to the context for the request log.
func respondError(c *gin.Context, err error) {
	var billingInvalid *billing.ValidationError
	var requestInvalid *requests.ValidationError

	switch {
	case errors.As(err, &billingInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": billingInvalid.Err.Error(), "field": billingInvalid.Field})
	case errors.As(err, &requestInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": requestInvalid.Message, "field": requestInvalid.Field})
	case errors.Is(err, billing.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": billing.ErrInvalidRange.Error()})
	case errors.Is(err, storage.ErrEmptyUpload):
		c.JSON(http.StatusBadRequest, gin.H{"error": storage.ErrEmptyUpload.Error()})
	case errors.Is(err, billing.ErrForbidden),
		errors.Is(err, requests.ErrForbidden),
		errors.Is(err, attendance.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, billing.ErrNotFound), errors.Is(err, requests.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, attendance.ErrNoOpenSession):
		c.JSON(http.StatusConflict, gin.H{"error": attendance.ErrNoOpenSession.Error()})
	case errors.Is(err, pricing.ErrInvalidSourceDocument):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": pricing.ErrInvalidSourceDocument.Error()})
	case errors.Is(err, billing.ErrPersistence), errors.Is(err, requests.ErrPersistence):
		_ = c.Error(err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence_failed", "retryable": true})
	case errors.Is(err, ai.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ai.ErrNotConfigured.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

// respondRetry hands back a document that was priced but not saved so the
// client can submit it again unchanged.
func respondRetry(c *gin.Context, document any, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":     billing.ErrPersistence.Error(),
		"retryable": true,
		"document":  document,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
