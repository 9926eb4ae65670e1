package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInvalidExpense  = errors.New("invalid expense")
)

type expenseService struct {
	expenseRepo repositories.ExpenseRepositoryInterface
	budgetRepo  repositories.BudgetRepositoryInterface
	audit       AuditLoggerInterface
}

func NewExpenseService(
	expenseRepo repositories.ExpenseRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	audit AuditLoggerInterface,
) ExpenseServiceInterface {
	if audit == nil {
		audit = NewAuditLogger(nil)
	}
	return &expenseService{
		expenseRepo: expenseRepo,
		budgetRepo:  budgetRepo,
		audit:       audit,
	}
}

// CreateExpense logs a spend against one of the caller's budgets. The
// repository copies the budget category and bumps amount_spent.
func (s *expenseService) CreateExpense(ctx context.Context, userID uuid.UUID, req *dto.CreateExpenseRequest) (*models.Expense, error) {
	budgetID, err := uuid.Parse(req.BudgetID)
	if err != nil {
		return nil, fmt.Errorf("%w: budget id must be a UUID", ErrInvalidExpense)
	}

	expense := &models.Expense{
		UserID:      userID,
		BudgetID:    budgetID,
		ExpenseName: strings.TrimSpace(req.ExpenseName),
		Amount:      req.Amount,
	}
	if err := expense.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpense, err)
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, mapExpenseError(err, "failed to create expense")
	}

	s.audit.LogExpenseChange(ctx, userID, expense.ID, expense.BudgetID, AuditActionCreated, expense.Amount)
	return expense, nil
}

func (s *expenseService) GetExpense(ctx context.Context, userID, expenseID uuid.UUID) (*models.Expense, error) {
	expense, err := s.expenseRepo.GetByID(ctx, userID, expenseID)
	if err != nil {
		return nil, mapExpenseError(err, "failed to get expense")
	}
	return expense, nil
}

// ListBudgetExpenses returns the expenses of one budget, which must belong to the caller.
func (s *expenseService) ListBudgetExpenses(ctx context.Context, userID, budgetID uuid.UUID) ([]models.Expense, error) {
	if _, err := s.budgetRepo.GetByID(ctx, userID, budgetID); err != nil {
		return nil, mapBudgetError(err, "failed to get budget")
	}

	expenses, err := s.expenseRepo.ListByBudget(ctx, userID, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return expenses, nil
}

func (s *expenseService) UpdateExpense(ctx context.Context, userID, expenseID uuid.UUID, update repositories.ExpenseUpdate) (*models.Expense, error) {
	expense, err := s.expenseRepo.Update(ctx, userID, expenseID, update)
	if err != nil {
		return nil, mapExpenseError(err, "failed to update expense")
	}
	s.audit.LogExpenseChange(ctx, userID, expense.ID, expense.BudgetID, AuditActionUpdated, expense.Amount)
	return expense, nil
}

func (s *expenseService) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) error {
	if err := s.expenseRepo.Delete(ctx, userID, expenseID); err != nil {
		return mapExpenseError(err, "failed to delete expense")
	}
	s.audit.LogExpenseChange(ctx, userID, expenseID, uuid.Nil, AuditActionDeleted, 0)
	return nil
}

func mapExpenseError(err error, msg string) error {
	switch {
	case errors.Is(err, repositories.ErrExpenseNotFound):
		return ErrExpenseNotFound
	case errors.Is(err, repositories.ErrBudgetNotFound):
		return ErrBudgetNotFound
	case errors.Is(err, repositories.ErrNothingToUpdate):
		return ErrNothingToUpdate
	case errors.Is(err, models.ErrExpenseNameRequired), errors.Is(err, models.ErrInvalidExpenseAmount):
		return fmt.Errorf("%w: %v", ErrInvalidExpense, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
