// Package handlers is the HTTP edge: it binds requests, takes the caller's
// session from the auth middleware and maps service errors to status codes.
package handlers

import (
	"context"
	"net/http"
	"time"

	"signboard-admin/internal/attendance"
	"signboard-admin/internal/auth"
	"signboard-admin/internal/billing"
	"signboard-admin/internal/middleware"
	"signboard-admin/internal/render"
	"signboard-admin/internal/requests"
	"signboard-admin/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Assistant answers free-text questions for a session.
type Assistant interface {
	Ask(ctx context.Context, session auth.Session, message string) (string, error)
}

// Deps are the services behind the routes.
type Deps struct {
	DB                *gorm.DB
	Tokens            *auth.Tokens
	Billing           *billing.Service
	Requests          *requests.Service
	Attendance        *attendance.Service
	Files             *storage.Local
	Assistant         Assistant
	Company           render.Company
	Location          *time.Location
	AllowRegistration bool
}

type Handler struct {
	db         *gorm.DB
	tokens     *auth.Tokens
	billing    *billing.Service
	requests   *requests.Service
	attendance *attendance.Service
	files      *storage.Local
	assistant  Assistant
	company    render.Company
	loc        *time.Location

	allowRegistration bool
}

func New(d Deps) *Handler {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		db:         d.DB,
		tokens:     d.Tokens,
		billing:    d.Billing,
		requests:   d.Requests,
		attendance: d.Attendance,
		files:      d.Files,
		assistant:  d.Assistant,
		company:    d.Company,
		loc:        loc,

		allowRegistration: d.AllowRegistration,
	}
}

// session is only called behind AuthMiddleware.
func session(c *gin.Context) auth.Session {
	s, _ := middleware.CurrentSession(c)
	return s
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "online"})
}
