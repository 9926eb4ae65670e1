package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget-tracker/internal/models"
	"budget-tracker/internal/timewindow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrNothingToUpdate = errors.New("no fields to update")
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &budgetRepository{db: db}
}

func (r *budgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	if budget == nil {
		return errors.New("budget cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(budget).Error; err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

func (r *budgetRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Budget, error) {
	return findBudget(r.db.WithContext(ctx), userID, id)
}

func (r *budgetRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	var budgets []models.Budget

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	return budgets, nil
}

// Update applies the given fields. A category rename is copied onto every
// expense of the budget in the same transaction.
func (r *budgetRepository) Update(ctx context.Context, userID, id uuid.UUID, update BudgetUpdate) (*models.Budget, error) {
	fields := map[string]interface{}{}
	if update.BudgetCategory != nil {
		category := strings.TrimSpace(*update.BudgetCategory)
		if category == "" {
			return nil, models.ErrBudgetCategoryRequired
		}
		fields["budget_category"] = category
	}
	if update.BudgetLimit != nil {
		if *update.BudgetLimit <= 0 {
			return nil, models.ErrInvalidBudgetLimit
		}
		fields["budget_limit"] = *update.BudgetLimit
	}
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated *models.Budget
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, userID, id)
		if err != nil {
			return err
		}

		if err := tx.Model(budget).Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to update budget: %w", err)
		}

		if category, ok := fields["budget_category"]; ok {
			if err := tx.Model(&models.Expense{}).
				Where("budget_id = ?", budget.ID).
				Update("budget_category", category).Error; err != nil {
				return fmt.Errorf("failed to rename budget expenses: %w", err)
			}
		}

		updated, err = findBudget(tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete soft-deletes the budget together with its expenses.
func (r *budgetRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, userID, id)
		if err != nil {
			return err
		}

		if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.Expense{}).Error; err != nil {
			return fmt.Errorf("failed to delete budget expenses: %w", err)
		}

		if err := tx.Delete(budget).Error; err != nil {
			return fmt.Errorf("failed to delete budget: %w", err)
		}

		return nil
	})
}

func (r *budgetRepository) SumLimitInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) (int64, error) {
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Budget{}).
		Select("COALESCE(SUM(budget_limit), 0)").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, w.Start, w.End).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum budget limits: %w", err)
	}

	return total, nil
}

func (r *budgetRepository) ListInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) ([]models.Budget, error) {
	var budgets []models.Budget

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, w.Start, w.End).
		Order("created_at ASC, id ASC").
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to list budgets in window: %w", err)
	}

	return budgets, nil
}

// ListWithExpensesInWindow loads the window's budgets with each budget's
// expenses that were also created inside the window.
func (r *budgetRepository) ListWithExpensesInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) ([]models.Budget, error) {
	var budgets []models.Budget

	if err := r.db.WithContext(ctx).
		Preload("Expenses", func(db *gorm.DB) *gorm.DB {
			return db.Where("created_at BETWEEN ? AND ?", w.Start, w.End).
				Order("created_at ASC, id ASC")
		}).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, w.Start, w.End).
		Order("created_at ASC, id ASC").
		Find(&budgets).Error; err != nil {
		return nil, fmt.Errorf("failed to list budgets with expenses: %w", err)
	}

	return budgets, nil
}

// ListSpendDrift returns budgets whose amount_spent differs from the sum of
// their live expenses.
func (r *budgetRepository) ListSpendDrift(ctx context.Context, userID uuid.UUID) ([]models.BudgetSpendDrift, error) {
	var drift []models.BudgetSpendDrift

	query := `
		SELECT
			b.id AS budget_id,
			b.budget_category,
			b.amount_spent,
			COALESCE(SUM(e.amount), 0) AS expense_total
		FROM budgets b
		LEFT JOIN expenses e ON e.budget_id = b.id AND e.deleted_at IS NULL
		WHERE b.user_id = ?
			AND b.deleted_at IS NULL
		GROUP BY b.id, b.budget_category, b.amount_spent, b.created_at
		HAVING b.amount_spent <> COALESCE(SUM(e.amount), 0)
		ORDER BY b.created_at ASC, b.id ASC
	`

	if err := r.db.WithContext(ctx).Raw(query, userID).Scan(&drift).Error; err != nil {
		return nil, fmt.Errorf("failed to list budget spend drift: %w", err)
	}

	return drift, nil
}

// SyncAmountSpent resets the budget's amount_spent to the sum of its live
// expenses and returns the new value.
func (r *budgetRepository) SyncAmountSpent(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, userID, id)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Expense{}).
			Select("COALESCE(SUM(amount), 0)").
			Where("budget_id = ?", budget.ID).
			Scan(&total).Error; err != nil {
			return fmt.Errorf("failed to sum budget expenses: %w", err)
		}

		if err := tx.Model(budget).UpdateColumn("amount_spent", total).Error; err != nil {
			return fmt.Errorf("failed to sync amount spent: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return total, nil
}

func findBudget(db *gorm.DB, userID, id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget

	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return &budget, nil
}
