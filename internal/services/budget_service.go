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
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrNothingToUpdate = errors.New("nothing to update")
	ErrInvalidBudget   = errors.New("invalid budget")
)

type budgetService struct {
	budgetRepo repositories.BudgetRepositoryInterface
	audit      AuditLoggerInterface
}

func NewBudgetService(budgetRepo repositories.BudgetRepositoryInterface, audit AuditLoggerInterface) BudgetServiceInterface {
	if audit == nil {
		audit = NewAuditLogger(nil)
	}
	return &budgetService{budgetRepo: budgetRepo, audit: audit}
}

func (s *budgetService) CreateBudget(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*models.Budget, error) {
	budget := &models.Budget{
		UserID:         userID,
		BudgetCategory: strings.TrimSpace(req.BudgetCategory),
		BudgetLimit:    req.BudgetLimit,
	}
	if err := budget.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBudget, err)
	}

	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	s.audit.LogBudgetChange(ctx, userID, budget.ID, AuditActionCreated)
	return budget, nil
}

func (s *budgetService) GetBudget(ctx context.Context, userID, budgetID uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, mapBudgetError(err, "failed to get budget")
	}
	return budget, nil
}

func (s *budgetService) ListBudgets(ctx context.Context, userID uuid.UUID) ([]models.Budget, error) {
	budgets, err := s.budgetRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	return budgets, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, userID, budgetID uuid.UUID, update repositories.BudgetUpdate) (*models.Budget, error) {
	budget, err := s.budgetRepo.Update(ctx, userID, budgetID, update)
	if err != nil {
		return nil, mapBudgetError(err, "failed to update budget")
	}
	s.audit.LogBudgetChange(ctx, userID, budgetID, AuditActionUpdated)
	return budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, userID, budgetID uuid.UUID) error {
	if err := s.budgetRepo.Delete(ctx, userID, budgetID); err != nil {
		return mapBudgetError(err, "failed to delete budget")
	}
	s.audit.LogBudgetChange(ctx, userID, budgetID, AuditActionDeleted)
	return nil
}

func (s *budgetService) ReconcileSpend(ctx context.Context, userID uuid.UUID, fix bool) ([]models.BudgetSpendDrift, error) {
	drift, err := s.budgetRepo.ListSpendDrift(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list spend drift: %w", err)
	}
	if drift == nil {
		drift = []models.BudgetSpendDrift{}
	}

	if !fix {
		return drift, nil
	}

	for _, d := range drift {
		total, err := s.budgetRepo.SyncAmountSpent(ctx, userID, d.BudgetID)
		if err != nil {
			return nil, mapBudgetError(err, "failed to sync amount spent")
		}
		s.audit.LogSpendReconciled(ctx, userID, d.BudgetID, d.AmountSpent, total)
	}

	return drift, nil
}

func mapBudgetError(err error, msg string) error {
	switch {
	case errors.Is(err, repositories.ErrBudgetNotFound):
		return ErrBudgetNotFound
	case errors.Is(err, repositories.ErrNothingToUpdate):
		return ErrNothingToUpdate
	case errors.Is(err, models.ErrBudgetCategoryRequired), errors.Is(err, models.ErrInvalidBudgetLimit):
		return fmt.Errorf("%w: %v", ErrInvalidBudget, err)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}
