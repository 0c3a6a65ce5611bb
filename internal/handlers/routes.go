package handlers

import (
	"signboard-admin/internal/middleware"
	"signboard-admin/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Routes mounts every route on r. Static files, /metrics and CORS are left to
// the caller.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/health", Health)
	r.POST("/login", h.Login)
	r.POST("/public/requests", h.SubmitPublicRequest)

	// Only opens if we explicitly allow it in .env
	if h.allowRegistration {
		r.POST("/register", h.Register)
		zap.L().Warn("registration route is OPEN; disable ALLOW_REGISTRATION in production")
	} else {
		zap.L().Info("registration route is disabled")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(h.tokens))
	{
		api.POST("/logout", h.Logout)

		api.GET("/quotations", h.ListQuotations)
		api.POST("/quotations", h.CreateQuotation)
		api.GET("/quotations/export", h.ExportQuotations)
		api.GET("/quotations/:id", h.GetQuotation)
		api.PUT("/quotations/:id", h.UpdateQuotation)
		api.GET("/quotations/:id/pdf", h.QuotationPDF)
		api.POST("/quotations/:id/invoice", h.GenerateInvoice)

		api.GET("/invoices", h.ListInvoices)
		api.POST("/invoices", h.CreateInvoice)
		api.GET("/invoices/export", h.ExportInvoices)
		api.GET("/invoices/:id", h.GetInvoice)
		api.PUT("/invoices/:id", h.UpdateInvoice)
		api.PATCH("/invoices/:id/status", h.UpdateInvoiceStatus)
		api.GET("/invoices/:id/pdf", h.InvoicePDF)

		api.POST("/requests", h.SubmitRequest)
		api.GET("/requests/mine", h.MyRequests)
		api.GET("/requests/:id", h.GetRequest)

		api.GET("/attendance/mine", h.MyAttendance)
		api.GET("/reports/recent", h.RecentInvoices)
		api.POST("/upload", h.Upload)

		// ADMIN ONLY
		admin := api.Group("")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/requests", h.ListRequests)
			admin.GET("/requests/customers", h.ListCustomerRequests)
			admin.GET("/requests/employees", h.ListEmployeeRequests)
			admin.GET("/requests/employees/:userId", h.ListRequestsByEmployee)
			admin.PATCH("/requests/:id/status", h.UpdateRequestStatus)

			admin.GET("/reports/dashboard", h.Dashboard)
			admin.GET("/reports/sales", h.SalesReport)

			admin.GET("/attendance", h.ListAttendance)
			admin.POST("/attendance/auto-logout", h.AutoLogout)

			admin.POST("/users", h.CreateUser)
			admin.POST("/ask", h.AskAI)
		}
	}
}
