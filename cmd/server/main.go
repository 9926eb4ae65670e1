package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budget-tracker/internal/config"
	"budget-tracker/internal/database"
	"budget-tracker/internal/export"
	"budget-tracker/internal/handlers"
	"budget-tracker/internal/middleware"
	"budget-tracker/internal/money"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	// --- Logger ---
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	logger.Info("configuration loaded",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
		"export_dir", cfg.Report.ExportDir,
		"file_ttl", cfg.Report.FileTTL.String(),
	)

	errorLog, err := services.OpenErrorLogger(cfg.Report.ErrorLogPath, logger)
	if err != nil {
		log.Fatalf("Failed to open error log: %v", err)
	}
	defer errorLog.Close()

	// --- Database ---
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := os.MkdirAll(cfg.Report.ExportDir, 0o755); err != nil {
		log.Fatalf("Failed to create export directory: %v", err)
	}

	// --- Repositories ---
	userRepo := repositories.NewUserRepository(db.DB)
	budgetRepo := repositories.NewBudgetRepository(db.DB)
	expenseRepo := repositories.NewExpenseRepository(db.DB)

	// --- Services ---
	metrics := services.NewPrometheusMetrics()
	auditLog := services.NewAuditLogger(logger)
	passwordService := services.NewPasswordService(cfg.Security.BCryptCost)
	tokenService := services.NewTokenService(&cfg.JWT)
	authService := services.NewAuthService(userRepo, passwordService, tokenService, metrics, logger)
	budgetService := services.NewBudgetService(budgetRepo, auditLog)
	expenseService := services.NewExpenseService(expenseRepo, budgetRepo, auditLog)
	reportService := services.NewReportService(budgetRepo, expenseRepo)

	store := export.NewFileStore(cfg.Report.ExportDir, cfg.Report.FileTTL, export.TimerScheduler())
	renderer := export.NewWorkbookRenderer(money.NewCodec(cfg.Report.CurrencySymbol))
	generator := services.NewReportGenerator(
		reportService,
		renderer,
		store,
		metrics,
		errorLog,
		cfg.Server.BaseURL,
		cfg.Report.PublicPath,
	)

	// Catches files orphaned by a restart, which no timer covers
	sweeper := export.NewSweeper(cfg.Report.ExportDir, cfg.Report.FileTTL)
	sweeper.OnSwept(func(removed int) {
		metrics.RecordGauge(services.MetricExportFilesSwept, float64(removed), nil)
	})
	if err := sweeper.Start(cfg.Report.SweepSchedule); err != nil {
		log.Fatalf("Failed to start export sweeper: %v", err)
	}
	defer sweeper.Stop()

	var seeder services.DataSeederInterface
	if cfg.IsDevelopment() {
		seeder = services.NewDataSeeder(budgetRepo, expenseRepo, nil)
	}

	// --- Router ---
	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewHTTPErrorHandler(metrics)

	e.Use(middleware.RequestID())
	e.Use(middleware.PanicRecovery(errorLog))
	e.Use(middleware.SecurityHeaders(cfg.Report.PublicPath))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.Server.CORSAllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, middleware.TraceIDHeader},
		ExposeHeaders:    []string{middleware.TraceIDHeader},
		AllowCredentials: true,
	}))

	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	defer stopLimiter()
	reportLimiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerSecond, cfg.Security.RateLimitPerSecond*2)
	reportLimiter.StartCleanup(limiterCtx)

	handlers.RegisterRoutes(e, handlers.Handlers{
		Auth:    handlers.NewAuthHandler(authService, cfg.JWT, cfg.IsProduction()),
		Budget:  handlers.NewBudgetHandler(budgetService, expenseService),
		Expense: handlers.NewExpenseHandler(expenseService, reportService),
		Report:  handlers.NewReportHandler(generator, reportService),
		Health:  handlers.NewHealthCheckHandler(db.DB),
		Dev:     handlers.NewDevHandler(seeder, budgetService),
	}, handlers.RouteConfig{
		RequireAuth:   middleware.RequireAuth(tokenService, cookieName(cfg.JWT)),
		ReportLimiter: reportLimiter.Middleware(),
		ExportDir:     cfg.Report.ExportDir,
		PublicPath:    cfg.Report.PublicPath,
		EnableDev:     cfg.IsDevelopment(),
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := e.StartServer(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server forced shutdown", "error", err)
	}

	logger.Info("server stopped", "pending_exports", store.PendingCount())
}

func cookieName(jwt config.JWTConfig) string {
	if !jwt.AllowCookie {
		return ""
	}
	return jwt.CookieName
}
