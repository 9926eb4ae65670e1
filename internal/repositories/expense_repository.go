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

var ErrExpenseNotFound = errors.New("expense not found")

type expenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) ExpenseRepositoryInterface {
	return &expenseRepository{db: db}
}

// Create inserts the expense under its budget, copies the budget's category
// onto it and adds the amount to the budget's amount_spent.
func (r *expenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	if expense == nil {
		return errors.New("expense cannot be nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		budget, err := findBudget(tx, expense.UserID, expense.BudgetID)
		if err != nil {
			return err
		}

		expense.BudgetCategory = budget.BudgetCategory
		if err := tx.Create(expense).Error; err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}

		return adjustAmountSpent(tx, budget.ID, expense.Amount)
	})
}

func (r *expenseRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Expense, error) {
	return findExpense(r.db.WithContext(ctx), userID, id)
}

func (r *expenseRepository) ListByBudget(ctx context.Context, userID, budgetID uuid.UUID) ([]models.Expense, error) {
	var expenses []models.Expense

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND budget_id = ?", userID, budgetID).
		Order("created_at DESC, id ASC").
		Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list budget expenses: %w", err)
	}

	return expenses, nil
}

// Update applies the given fields and moves the owning budget's amount_spent
// by the difference between the new and old amounts.
func (r *expenseRepository) Update(ctx context.Context, userID, id uuid.UUID, update ExpenseUpdate) (*models.Expense, error) {
	fields := map[string]interface{}{}
	if update.ExpenseName != nil {
		name := strings.TrimSpace(*update.ExpenseName)
		if name == "" {
			return nil, models.ErrExpenseNameRequired
		}
		fields["expense_name"] = name
	}
	if update.Amount != nil {
		if *update.Amount <= 0 {
			return nil, models.ErrInvalidExpenseAmount
		}
		fields["amount"] = *update.Amount
	}
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}

	var updated *models.Expense
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expense, err := findExpense(tx, userID, id)
		if err != nil {
			return err
		}
		oldAmount := expense.Amount

		if err := tx.Model(expense).Updates(fields).Error; err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}

		if update.Amount != nil && *update.Amount != oldAmount {
			if err := adjustAmountSpent(tx, expense.BudgetID, *update.Amount-oldAmount); err != nil {
				return err
			}
		}

		updated, err = findExpense(tx, userID, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete soft-deletes the expense and subtracts its amount from the budget.
func (r *expenseRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		expense, err := findExpense(tx, userID, id)
		if err != nil {
			return err
		}

		if err := tx.Delete(expense).Error; err != nil {
			return fmt.Errorf("failed to delete expense: %w", err)
		}

		return adjustAmountSpent(tx, expense.BudgetID, -expense.Amount)
	})
}

func (r *expenseRepository) SumAmountInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) (int64, error) {
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, w.Start, w.End).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return total, nil
}

func (r *expenseRepository) GroupByCategoryInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window, order CategoryOrder) ([]models.CategoryTotal, error) {
	var totals []models.CategoryTotal

	orderBy := "total_amount DESC, budget_category ASC"
	if order == OrderByCount {
		orderBy = "expense_count DESC, total_amount DESC, budget_category ASC"
	}

	if err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("budget_category, COUNT(*) AS expense_count, COALESCE(SUM(amount), 0) AS total_amount").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, w.Start, w.End).
		Group("budget_category").
		Order(orderBy).
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to group expenses by category: %w", err)
	}

	return totals, nil
}

func (r *expenseRepository) ListInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window, limit int) ([]models.Expense, error) {
	var expenses []models.Expense

	query := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, w.Start, w.End).
		Order("amount DESC, created_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list expenses in window: %w", err)
	}

	return expenses, nil
}

func (r *expenseRepository) SumByTimestampInWindow(ctx context.Context, userID uuid.UUID, w timewindow.Window) ([]models.TimestampTotal, error) {
	var totals []models.TimestampTotal

	if err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("expenses.timestamp AS timestamp, COALESCE(SUM(amount), 0) AS total_amount").
		Where("user_id = ? AND created_at BETWEEN ? AND ?", userID, w.Start, w.End).
		Group("expenses.timestamp").
		Order("expenses.timestamp ASC").
		Scan(&totals).Error; err != nil {
		return nil, fmt.Errorf("failed to group expenses by timestamp: %w", err)
	}

	return totals, nil
}

func (r *expenseRepository) SumByBudget(ctx context.Context, budgetID uuid.UUID) (int64, error) {
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("budget_id = ?", budgetID).
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum budget expenses: %w", err)
	}

	return total, nil
}

func findExpense(db *gorm.DB, userID, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense

	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpenseNotFound
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return &expense, nil
}

func adjustAmountSpent(tx *gorm.DB, budgetID uuid.UUID, delta int64) error {
	if err := tx.Model(&models.Budget{}).
		Where("id = ?", budgetID).
		UpdateColumn("amount_spent", gorm.Expr("amount_spent + ?", delta)).Error; err != nil {
		return fmt.Errorf("failed to adjust budget amount spent: %w", err)
	}
	return nil
}
