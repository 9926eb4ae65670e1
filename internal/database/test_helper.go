package database

import (
	"fmt"
	"testing"
	"time"

	"budget-tracker/internal/config"
	"budget-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens a migrated in-memory sqlite database. The pool is pinned
// to one connection so every query sees the same in-memory schema.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), gormConfig)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	testDB := &DB{
		DB: db,
		config: &config.DatabaseConfig{
			MaxConnections: 1,
			MaxIdleConns:   1,
		},
	}

	if err := testDB.AutoMigrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return testDB
}

func CreateTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		PasswordHash: "hashed_password",
		FirstName:    "Test",
		LastName:     "User",
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestBudget inserts a budget created at createdAt. amountSpent is
// stored as given; it is not derived from expenses.
func CreateTestBudget(t *testing.T, db *DB, userID uuid.UUID, category string, limit, amountSpent int64, createdAt time.Time) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID:         userID,
		BudgetCategory: category,
		BudgetLimit:    limit,
		AmountSpent:    amountSpent,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}

	return budget
}

// CreateTestExpense inserts an expense directly, bypassing amount_spent bookkeeping.
func CreateTestExpense(t *testing.T, db *DB, budget *models.Budget, name string, amount int64, createdAt time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:         budget.UserID,
		BudgetID:       budget.ID,
		BudgetCategory: budget.BudgetCategory,
		ExpenseName:    name,
		Amount:         amount,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}

	return expense
}

func CleanupTestDB(t *testing.T, db *DB) {
	t.Helper()

	tables := []string{
		"expenses",
		"budgets",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			t.Logf("failed to cleanup table %s: %v", table, err)
		}
	}
}
