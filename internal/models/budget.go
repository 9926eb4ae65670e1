package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBudgetCategoryRequired = errors.New("budget category is required")
	ErrInvalidBudgetLimit     = errors.New("budget limit must be positive")
)

// Budget is a spending cap for one category. Amounts are minor units.
type Budget struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetCategory string         `gorm:"type:varchar(100);not null" json:"budget_category"`
	BudgetLimit    int64          `gorm:"not null" json:"budget_limit"`
	AmountSpent    int64          `gorm:"not null;default:0" json:"amount_spent"`
	Timestamp      int64          `gorm:"not null" json:"timestamp"`
	CreatedAt      time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Expenses []Expense `gorm:"foreignKey:BudgetID" json:"expenses,omitempty"`
}

func (b *Budget) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = now
	}
	if b.Timestamp == 0 {
		b.Timestamp = b.CreatedAt.Unix()
	}

	return b.Validate()
}

func (b *Budget) Validate() error {
	if b.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}

	if strings.TrimSpace(b.BudgetCategory) == "" {
		return ErrBudgetCategoryRequired
	}

	if b.BudgetLimit <= 0 {
		return ErrInvalidBudgetLimit
	}

	return nil
}

// Remaining is the limit minus the running spend counter; negative when overspent.
func (b *Budget) Remaining() int64 {
	return b.BudgetLimit - b.AmountSpent
}

func (b *Budget) TableName() string {
	return "budgets"
}
