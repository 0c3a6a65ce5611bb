package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"signboard-admin/internal/ai"
	"signboard-admin/internal/attendance"
	"signboard-admin/internal/auth"
	"signboard-admin/internal/billing"
	"signboard-admin/internal/clock"
	"signboard-admin/internal/config"
	"signboard-admin/internal/database"
	"signboard-admin/internal/handlers"
	"signboard-admin/internal/logger"
	"signboard-admin/internal/metrics"
	"signboard-admin/internal/render"
	"signboard-admin/internal/requests"
	"signboard-admin/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const autoLogoutInterval = 15 * time.Minute

func main() {
	cfg := config.Load()

	zlog, err := logger.New(logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.JWTSecret == "" {
		zlog.Fatal("JWT_SECRET not set")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.Connect(cfg)
	clk := clock.System()
	store := database.NewStore(db, clk)
	files := storage.NewLocal(cfg.UploadDir, cfg.BaseURL, clk)

	billingSvc := billing.NewService(billing.Params{
		Store:    store,
		Clock:    clk,
		Location: cfg.Location,
		FlatRate: cfg.GSTFlatRate,
		DueDays:  cfg.InvoiceDueDays,
		Metrics: metrics.NewBilling(prometheus.DefaultRegisterer, metrics.Config{
			ServiceName: cfg.AppName,
			Environment: cfg.Environment,
		}),
		Logger: zlog,
	})
	attendanceSvc := attendance.NewService(store, clk, cfg.Location, zlog)

	h := handlers.New(handlers.Deps{
		DB:         db,
		Tokens:     auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL, cfg.AppName, clk),
		Billing:    billingSvc,
		Requests:   requests.NewService(store, files, clk, zlog),
		Attendance: attendanceSvc,
		Files:      files,
		Assistant:  ai.NewAgent(cfg.GeminiAPIKey, ai.NewToolbox(billingSvc, cfg.Location), clk, zlog),
		Company: render.Company{
			Name:    cfg.Company.Name,
			Address: cfg.Company.Address,
			GSTIN:   cfg.Company.GSTIN,
			Phone:   cfg.Company.Phone,
		},
		Location:          cfg.Location,
		AllowRegistration: cfg.AllowRegistration,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/uploads", cfg.UploadDir)
	h.Routes(r)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go attendanceSvc.RunAutoLogout(ctx, autoLogoutInterval)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info("server starting", zap.String("addr", srv.Addr), zap.String("base_url", cfg.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}
