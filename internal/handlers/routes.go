package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every endpoint handler the router mounts
type Handlers struct {
	Auth    *AuthHandler
	Budget  *BudgetHandler
	Expense *ExpenseHandler
	Report  *ReportHandler
	Health  *HealthCheckHandler
	Dev     *DevHandler
}

// RouteConfig carries the middleware and paths the routes depend on
type RouteConfig struct {
	RequireAuth   echo.MiddlewareFunc
	ReportLimiter echo.MiddlewareFunc
	ExportDir     string
	PublicPath    string
	EnableDev     bool
}

// RegisterRoutes mounts the API on e
func RegisterRoutes(e *echo.Echo, h Handlers, cfg RouteConfig) {
	e.GET("/health", h.Health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.Static(cfg.PublicPath, cfg.ExportDir)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me, cfg.RequireAuth)

	budget := api.Group("/budget", cfg.RequireAuth)
	budget.POST("/create", h.Budget.CreateBudget)
	budget.GET("/all", h.Budget.ListBudgets)
	budget.GET("/:id", h.Budget.GetBudget)
	budget.GET("/:id/expenses", h.Budget.ListBudgetExpenses)
	budget.PUT("/update/:id", h.Budget.UpdateBudget)
	budget.DELETE("/delete/:id", h.Budget.DeleteBudget)

	expense := api.Group("/expense", cfg.RequireAuth)
	expense.POST("/create", h.Expense.CreateExpense)
	expense.GET("/monthly", h.Expense.MonthlyBudgets)
	expense.GET("/:id", h.Expense.GetExpense)
	expense.PUT("/update/:id", h.Expense.UpdateExpense)
	expense.DELETE("/delete/:id", h.Expense.DeleteExpense)

	generate := []echo.MiddlewareFunc{cfg.RequireAuth}
	if cfg.ReportLimiter != nil {
		generate = append(generate, cfg.ReportLimiter)
	}
	api.POST("/user/generate-report", h.Report.GenerateReport, generate...)

	report := api.Group("/report", cfg.RequireAuth)
	report.GET("/monthly", h.Report.MonthlyReport)
	report.GET("/yearly", h.Report.YearlyReport)

	if cfg.EnableDev && h.Dev != nil {
		dev := api.Group("/dev", cfg.RequireAuth)
		dev.POST("/seed", h.Dev.SeedData)
		dev.GET("/reconcile", h.Dev.Reconcile)
	}
}
