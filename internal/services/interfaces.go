package services

import (
	"context"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/export"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ReportServiceInterface aggregates a user's budgets and expenses over the
// calendar month or year containing now.
type ReportServiceInterface interface {
	GetMonthlyReport(ctx context.Context, userID uuid.UUID, now time.Time) (*models.MonthlyReport, error)
	GetYearlyReport(ctx context.Context, userID uuid.UUID, now time.Time) (*models.YearlyReport, error)
}

// ReportGeneratorInterface produces a downloadable workbook for a report
type ReportGeneratorInterface interface {
	Generate(ctx context.Context, userID uuid.UUID, reportType, userName string, now time.Time) (*dto.GeneratedReport, error)
}

// ReportRendererInterface lays out a report as a workbook
type ReportRendererInterface interface {
	RenderMonthly(report *models.MonthlyReport, userName string, generatedAt time.Time) (*excelize.File, error)
	RenderYearly(report *models.YearlyReport, userName string, generatedAt time.Time) (*excelize.File, error)
}

// ReportStoreInterface persists rendered workbooks for a bounded time
type ReportStoreInterface interface {
	Save(name string, doc export.Document) (export.StoredFile, error)
	PendingCount() int
}

type AuditLoggerInterface interface {
	LogBudgetChange(ctx context.Context, userID, budgetID uuid.UUID, action string)
	LogExpenseChange(ctx context.Context, userID, expenseID, budgetID uuid.UUID, action string, amount int64)
	LogSpendReconciled(ctx context.Context, userID, budgetID uuid.UUID, previous, current int64)
}

// ErrorLoggerInterface records server failures with full detail
type ErrorLoggerInterface interface {
	LogError(ctx context.Context, operation string, err error, attrs ...any)
}

type BudgetServiceInterface interface {
	CreateBudget(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error)
	GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (*models.Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID) ([]models.Budget, error)
	UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, update repositories.BudgetUpdate) (*models.Budget, error)
	DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error
	// ReconcileSpend lists budgets whose amount_spent disagrees with their
	// expenses. With fix set, each drifted counter is reset to the expense sum.
	ReconcileSpend(ctx context.Context, userID uuid.UUID, fix bool) ([]models.BudgetSpendDrift, error)
}

type ExpenseServiceInterface interface {
	CreateExpense(ctx context.Context, userID uuid.UUID, req *dto.CreateExpenseRequest) (*models.Expense, error)
	GetExpense(ctx context.Context, userID, expenseID uuid.UUID) (*models.Expense, error)
	ListBudgetExpenses(ctx context.Context, userID, budgetID uuid.UUID) ([]models.Expense, error)
	UpdateExpense(ctx context.Context, userID, expenseID uuid.UUID, update repositories.ExpenseUpdate) (*models.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) error
}

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*models.User, *dto.TokenResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration, tags map[string]string)
	RecordGauge(name string, value float64, tags map[string]string)
}

// DataSeederInterface fills a user's current year with demo budgets and expenses
type DataSeederInterface interface {
	SeedUser(ctx context.Context, userID uuid.UUID, now time.Time) (*dto.SeedResult, error)
}
