package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrExpenseNameRequired  = errors.New("expense name is required")
	ErrInvalidExpenseAmount = errors.New("expense amount must be positive")
)

// Expense is a single spend event against a budget. BudgetCategory is copied
// from the owning budget so reports can group without a join.
type Expense struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"budget_id"`
	BudgetCategory string         `gorm:"type:varchar(100);not null;index" json:"budget_category"`
	ExpenseName    string         `gorm:"type:varchar(255);not null" json:"expense_name"`
	Amount         int64          `gorm:"not null" json:"amount"`
	Timestamp      int64          `gorm:"not null;index" json:"timestamp"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	if e.Timestamp == 0 {
		e.Timestamp = e.CreatedAt.Unix()
	}

	return e.Validate()
}

func (e *Expense) Validate() error {
	if e.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if e.BudgetID == uuid.Nil {
		return errors.New("budget ID is required")
	}

	if strings.TrimSpace(e.ExpenseName) == "" {
		return ErrExpenseNameRequired
	}

	if e.Amount <= 0 {
		return ErrInvalidExpenseAmount
	}

	return nil
}

// Item drops everything but name and amount, the shape used in report breakdowns.
func (e *Expense) Item() ExpenseItem {
	return ExpenseItem{ExpenseName: e.ExpenseName, Amount: e.Amount}
}

func (e *Expense) TableName() string {
	return "expenses"
}
