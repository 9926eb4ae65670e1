package dto

import "budget-tracker/internal/models"

// Budget Request DTOs

// CreateBudgetRequest creates a budget. BudgetLimit is in minor units.
type CreateBudgetRequest struct {
	BudgetCategory string `json:"budgetCategory" validate:"required,not_blank,max=100"`
	BudgetLimit    int64  `json:"budgetLimit" validate:"required,positive_amount"`
}

// UpdateBudgetRequest changes the category, the limit, or both
type UpdateBudgetRequest struct {
	BudgetCategory *string `json:"budgetCategory" validate:"omitempty,not_blank,max=100"`
	BudgetLimit    *int64  `json:"budgetLimit" validate:"omitempty,gt=0"`
}

// Budget Response DTOs

type BudgetResponse struct {
	Budget  *models.Budget `json:"budget"`
	Message string         `json:"message,omitempty"`
}

type BudgetListResponse struct {
	Budgets []models.Budget `json:"budgets"`
	Total   int             `json:"total"`
}

// MonthlyBudgetsResponse is the dashboard feed of this month's per-category spend
type MonthlyBudgetsResponse struct {
	Month   string                     `json:"month"`
	Budgets []models.MonthlyBudgetLine `json:"budgets"`
}

// ReconcileResponse lists budgets whose running spend disagrees with their expenses
type ReconcileResponse struct {
	Drift []models.BudgetSpendDrift `json:"drift"`
	Fixed bool                      `json:"fixed"`
}
