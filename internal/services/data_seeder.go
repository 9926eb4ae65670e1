package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

const (
	seedMinExpensesPerBudget = 3
	seedMaxExpensesPerBudget = 8
)

// seedCategory is a demo budget line: limit range and expense range in minor units.
type seedCategory struct {
	name        string
	limitRange  [2]int
	amountRange [2]int
	items       []string
}

func seedCategories() []seedCategory {
	return []seedCategory{
		{"Groceries", [2]int{300000, 800000}, [2]int{1500, 25000}, []string{"Weekly shop", "Farmers market", "Bulk store", "Corner shop"}},
		{"Dining", [2]int{100000, 400000}, [2]int{800, 12000}, []string{"Lunch", "Coffee", "Dinner out", "Takeaway"}},
		{"Transport", [2]int{80000, 300000}, [2]int{1000, 8000}, []string{"Fuel", "Train ticket", "Taxi", "Parking"}},
		{"Utilities", [2]int{150000, 400000}, [2]int{5000, 25000}, []string{"Electricity", "Water", "Internet", "Phone"}},
		{"Entertainment", [2]int{50000, 200000}, [2]int{1000, 6000}, []string{"Cinema", "Streaming", "Concert", "Games"}},
		{"Healthcare", [2]int{50000, 300000}, [2]int{2000, 30000}, []string{"Pharmacy", "Checkup", "Dental"}},
		{"Shopping", [2]int{100000, 500000}, [2]int{2500, 45000}, []string{"Clothes", "Electronics", "Home goods"}},
	}
}

type dataSeeder struct {
	budgetRepo  repositories.BudgetRepositoryInterface
	expenseRepo repositories.ExpenseRepositoryInterface
	categories  []seedCategory
	faker       *gofakeit.Faker
}

// NewDataSeeder creates a seeder drawing from faker. A nil faker uses a
// randomly seeded one.
func NewDataSeeder(
	budgetRepo repositories.BudgetRepositoryInterface,
	expenseRepo repositories.ExpenseRepositoryInterface,
	faker *gofakeit.Faker,
) DataSeederInterface {
	if faker == nil {
		faker = gofakeit.New(0)
	}
	return &dataSeeder{
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
		categories:  seedCategories(),
		faker:       faker,
	}
}

// SeedUser creates one budget per demo category and a handful of expenses
// each, all timestamped between January 1st and now.
func (g *dataSeeder) SeedUser(ctx context.Context, userID uuid.UUID, now time.Time) (*dto.SeedResult, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user ID cannot be nil")
	}

	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	result := &dto.SeedResult{}

	for _, category := range g.categories {
		createdAt := g.timestamp(yearStart, now)
		budget := &models.Budget{
			UserID:         userID,
			BudgetCategory: category.name,
			BudgetLimit:    int64(g.faker.Number(category.limitRange[0], category.limitRange[1])),
			Timestamp:      createdAt.Unix(),
			CreatedAt:      createdAt,
			UpdatedAt:      createdAt,
		}
		if err := g.budgetRepo.Create(ctx, budget); err != nil {
			return result, fmt.Errorf("failed to seed budget %q: %w", category.name, err)
		}
		result.Budgets++

		count := g.faker.Number(seedMinExpensesPerBudget, seedMaxExpensesPerBudget)
		for i := 0; i < count; i++ {
			spentAt := g.timestamp(createdAt, now)
			expense := &models.Expense{
				UserID:      userID,
				BudgetID:    budget.ID,
				ExpenseName: g.faker.RandomString(category.items),
				Amount:      int64(g.faker.Number(category.amountRange[0], category.amountRange[1])),
				Timestamp:   spentAt.Unix(),
				CreatedAt:   spentAt,
				UpdatedAt:   spentAt,
			}
			if err := g.expenseRepo.Create(ctx, expense); err != nil {
				return result, fmt.Errorf("failed to seed expense for %q: %w", category.name, err)
			}
			result.Expenses++
		}
	}

	slog.Info("seeded demo data",
		"user_id", userID,
		"budgets", result.Budgets,
		"expenses", result.Expenses)

	return result, nil
}

// timestamp picks an instant in [start, end], truncated to the second so the
// stored unix timestamp and created_at agree.
func (g *dataSeeder) timestamp(start, end time.Time) time.Time {
	if !end.After(start) {
		return start.Truncate(time.Second)
	}
	return g.faker.DateRange(start, end).Truncate(time.Second)
}
