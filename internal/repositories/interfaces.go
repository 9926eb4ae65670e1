package repositories

import (
	"context"

	"budget-tracker/internal/models"
	"budget-tracker/internal/timewindow"

	"github.com/google/uuid"
)

// CategoryOrder selects how category groupings are ranked.
type CategoryOrder int

const (
	// OrderByTotal ranks by summed amount descending, then category ascending.
	OrderByTotal CategoryOrder = iota
	// OrderByCount ranks by expense count descending, then summed amount
	// descending, then category ascending.
	OrderByCount
)

// BudgetUpdate carries the optional fields of a budget edit.
type BudgetUpdate struct {
	BudgetCategory *string
	BudgetLimit    *int64
}

// ExpenseUpdate carries the optional fields of an expense edit.
type ExpenseUpdate struct {
	ExpenseName *string
	Amount      *int64
}

// BudgetRepositoryInterface defines the contract for budget repository operations.
// Window reads are scoped to one user, include both window bounds and skip
// soft-deleted rows.
type BudgetRepositoryInterface interface {
	Create(ctx context.Context, budget *models.Budget) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Budget, error)
	Update(ctx context.Context, userID, id uuid.UUID, update BudgetUpdate) (*models.Budget, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	SumLimitInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) (int64, error)
	ListInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) ([]models.Budget, error)
	ListWithExpensesInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) ([]models.Budget, error)
	ListSpendDrift(ctx context.Context, userID uuid.UUID) ([]models.BudgetSpendDrift, error)
	SyncAmountSpent(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

// ExpenseRepositoryInterface defines the contract for expense repository operations.
// Writes keep the owning budget's amount_spent in step inside the same transaction.
type ExpenseRepositoryInterface interface {
	Create(ctx context.Context, expense *models.Expense) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Expense, error)
	ListByBudget(ctx context.Context, userID, budgetID uuid.UUID) ([]models.Expense, error)
	Update(ctx context.Context, userID, id uuid.UUID, update ExpenseUpdate) (*models.Expense, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	SumAmountInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) (int64, error)
	GroupByCategoryInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window, order CategoryOrder) ([]models.CategoryTotal, error)
	// ListInWindow orders by amount descending, then created_at and id ascending.
	// A limit of zero or less returns every row.
	ListInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window, limit int) ([]models.Expense, error)
	SumByTimestampInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) ([]models.TimestampTotal, error)
	SumByBudget(ctx context.Context, budgetID uuid.UUID) (int64, error)
}

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
