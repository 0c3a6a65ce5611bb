package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- POST: /api/upload ---
// Stores a file under uploads/general with a unix-time prefix.
func (h *Handler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "No file uploaded")
		return
	}

	body, err := header.Open()
	if err != nil {
		badRequest(c, "Could not read uploaded file")
		return
	}
	defer body.Close()

	obj, err := h.files.SaveStamped(c.Request.Context(), []string{"general"}, header.Filename, body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "File uploaded successfully",
		"url":      obj.URL,
		"fileName": obj.Name,
		"key":      obj.Key,
	})
}
