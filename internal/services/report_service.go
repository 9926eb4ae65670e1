package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"budget-tracker/internal/models"
	"budget-tracker/internal/money"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/timewindow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const monthsPerYear = 12

type reportService struct {
	budgetRepo  repositories.BudgetRepositoryInterface
	expenseRepo repositories.ExpenseRepositoryInterface
}

func NewReportService(
	budgetRepo repositories.BudgetRepositoryInterface,
	expenseRepo repositories.ExpenseRepositoryInterface,
) ReportServiceInterface {
	return &reportService{
		budgetRepo:  budgetRepo,
		expenseRepo: expenseRepo,
	}
}

// GetMonthlyReport runs the month's independent reads concurrently and joins
// them. Any failed read fails the whole report.
func (s *reportService) GetMonthlyReport(ctx context.Context, userID uuid.UUID, now time.Time) (*models.MonthlyReport, error) {
	window := timewindow.CurrentMonth(now)

	var (
		totalBudget   int64
		totalExpenses int64
		byCategory    []models.CategoryTotal
		budgets       []models.Budget
		expenses      []models.Expense
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.budgetRepo.SumLimitInWindow(gCtx, userID, window)
		if err != nil {
			return fmt.Errorf("failed to sum monthly budget: %w", err)
		}
		totalBudget = total
		return nil
	})

	g.Go(func() error {
		total, err := s.expenseRepo.SumAmountInWindow(gCtx, userID, window)
		if err != nil {
			return fmt.Errorf("failed to sum monthly expenses: %w", err)
		}
		totalExpenses = total
		return nil
	})

	g.Go(func() error {
		groups, err := s.expenseRepo.GroupByCategoryInWindow(gCtx, userID, window, repositories.OrderByTotal)
		if err != nil {
			return fmt.Errorf("failed to group monthly expenses: %w", err)
		}
		byCategory = groups
		return nil
	})

	g.Go(func() error {
		list, err := s.budgetRepo.ListWithExpensesInWindow(gCtx, userID, window)
		if err != nil {
			return fmt.Errorf("failed to list monthly budgets: %w", err)
		}
		budgets = list
		return nil
	})

	g.Go(func() error {
		list, err := s.expenseRepo.ListInWindow(gCtx, userID, window, 0)
		if err != nil {
			return fmt.Errorf("failed to list monthly expenses: %w", err)
		}
		expenses = list
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("monthly report aggregation failed",
			"user_id", userID,
			"window_start", window.Start,
			"error", err)
		return nil, err
	}

	report := &models.MonthlyReport{
		Month:              timewindow.MonthLabel(window.Start),
		PeriodStart:        window.Start,
		PeriodEnd:          window.End,
		TotalMonthlyBudget: totalBudget,
		TotalExpenses:      totalExpenses,
		Budgets:            monthlyBudgetLines(byCategory, budgets),
		Expenses:           expenses,
	}
	if report.Expenses == nil {
		report.Expenses = []models.Expense{}
	}

	if len(byCategory) > 0 {
		report.HighestExpenseBudget = &models.CategorySpend{
			BudgetCategory: byCategory[0].BudgetCategory,
			TotalSpent:     byCategory[0].Total,
		}
	}

	if len(expenses) > 0 {
		largest := expenses[0]
		report.LargestIndividualExpense = &largest
	}

	slog.Debug("monthly report aggregated",
		"user_id", userID,
		"month", report.Month,
		"categories", len(report.Budgets),
		"expenses", len(report.Expenses))

	return report, nil
}

// monthlyBudgetLines attaches to every spending category the limit and
// expenses of the last budget row with that category.
func monthlyBudgetLines(byCategory []models.CategoryTotal, budgets []models.Budget) []models.MonthlyBudgetLine {
	lastByCategory := make(map[string]*models.Budget, len(budgets))
	for i := range budgets {
		lastByCategory[budgets[i].BudgetCategory] = &budgets[i]
	}

	lines := make([]models.MonthlyBudgetLine, 0, len(byCategory))
	for _, group := range byCategory {
		line := models.MonthlyBudgetLine{
			BudgetCategory: group.BudgetCategory,
			TotalSpent:     group.Total,
		}

		if budget, ok := lastByCategory[group.BudgetCategory]; ok {
			limit := budget.BudgetLimit
			line.BudgetLimit = &limit
			line.Expenses = make([]models.ExpenseItem, 0, len(budget.Expenses))
			for i := range budget.Expenses {
				line.Expenses = append(line.Expenses, budget.Expenses[i].Item())
			}
		}

		lines = append(lines, line)
	}

	return lines
}

func (s *reportService) GetYearlyReport(ctx context.Context, userID uuid.UUID, now time.Time) (*models.YearlyReport, error) {
	window := timewindow.CurrentYear(now)
	loc := now.Location()

	var (
		totalBudget   int64
		totalExpenses int64
		budgets       []models.Budget
		topExpenses   []models.Expense
		byCategory    []models.CategoryTotal
		byTimestamp   []models.TimestampTotal
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		total, err := s.budgetRepo.SumLimitInWindow(gCtx, userID, window)
		if err != nil {
			return fmt.Errorf("failed to sum annual budget: %w", err)
		}
		totalBudget = total
		return nil
	})

	g.Go(func() error {
		list, err := s.budgetRepo.ListInWindow(gCtx, userID, window)
		if err != nil {
			return fmt.Errorf("failed to list annual budgets: %w", err)
		}
		budgets = list
		return nil
	})

	g.Go(func() error {
		total, err := s.expenseRepo.SumAmountInWindow(gCtx, userID, window)
		if err != nil {
			return fmt.Errorf("failed to sum annual expenses: %w", err)
		}
		totalExpenses = total
		return nil
	})

	g.Go(func() error {
		list, err := s.expenseRepo.ListInWindow(gCtx, userID, window, models.TopExpensesLimit)
		if err != nil {
			return fmt.Errorf("failed to list top expenses: %w", err)
		}
		topExpenses = list
		return nil
	})

	g.Go(func() error {
		groups, err := s.expenseRepo.GroupByCategoryInWindow(gCtx, userID, window, repositories.OrderByCount)
		if err != nil {
			return fmt.Errorf("failed to group annual expenses by category: %w", err)
		}
		byCategory = groups
		return nil
	})

	g.Go(func() error {
		groups, err := s.expenseRepo.SumByTimestampInWindow(gCtx, userID, window)
		if err != nil {
			return fmt.Errorf("failed to group annual expenses by timestamp: %w", err)
		}
		byTimestamp = groups
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("yearly report aggregation failed",
			"user_id", userID,
			"year", window.Start.Year(),
			"error", err)
		return nil, err
	}

	report := &models.YearlyReport{
		Year:                  window.Start.Year(),
		PeriodStart:           window.Start,
		PeriodEnd:             window.End,
		TotalAnnualBudget:     totalBudget,
		TotalExpenses:         totalExpenses,
		TotalSavings:          totalBudget - totalExpenses,
		AverageMonthlyExpense: money.Round2(decimal.NewFromInt(totalExpenses).Div(decimal.NewFromInt(monthsPerYear))),
		MostFrequentCategory:  models.NotAvailable,
		TopExpenses:           topExpenses,
	}
	if report.TopExpenses == nil {
		report.TopExpenses = []models.Expense{}
	}

	if len(topExpenses) > 0 {
		largest := topExpenses[0]
		report.LargestExpense = &largest
	}

	if len(byCategory) > 0 {
		report.MostFrequentCategory = byCategory[0].BudgetCategory
	}

	monthTotals := monthTotalsByLabel(byTimestamp, loc)
	report.LowestSpendingMonth, report.HighestSpendingMonth = spendingExtremes(monthTotals)
	report.BudgetBreakdown = budgetBreakdown(budgets, byCategory)
	report.MonthlySpending = monthlySpendingTrend(monthTotals, budgetsByMonth(budgets, loc))

	slog.Debug("yearly report aggregated",
		"user_id", userID,
		"year", report.Year,
		"budgets", len(budgets),
		"months", len(monthTotals))

	return report, nil
}

// monthTotalsByLabel re-buckets per-timestamp sums into month labels, keeping
// the order in which each label is first seen.
func monthTotalsByLabel(byTimestamp []models.TimestampTotal, loc *time.Location) []models.SpendingMonth {
	totals := make([]models.SpendingMonth, 0)
	index := make(map[string]int)

	for _, row := range byTimestamp {
		label := timewindow.MonthLabelForUnix(row.Timestamp, loc)
		if i, ok := index[label]; ok {
			totals[i].Amount += row.Total
			continue
		}
		index[label] = len(totals)
		totals = append(totals, models.SpendingMonth{Month: label, Amount: row.Total})
	}

	return totals
}

// spendingExtremes returns the first and last entries of an ascending stable
// sort by amount, or N/A placeholders when there is no spending.
func spendingExtremes(monthTotals []models.SpendingMonth) (lowest, highest models.SpendingMonth) {
	if len(monthTotals) == 0 {
		empty := models.SpendingMonth{Month: models.NotAvailable}
		return empty, empty
	}

	sorted := make([]models.SpendingMonth, len(monthTotals))
	copy(sorted, monthTotals)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Amount < sorted[j].Amount
	})

	return sorted[0], sorted[len(sorted)-1]
}

func budgetBreakdown(budgets []models.Budget, byCategory []models.CategoryTotal) []models.BudgetBreakdownLine {
	spentByCategory := make(map[string]int64, len(byCategory))
	for _, group := range byCategory {
		if _, ok := spentByCategory[group.BudgetCategory]; !ok {
			spentByCategory[group.BudgetCategory] = group.Total
		}
	}

	lines := make([]models.BudgetBreakdownLine, 0, len(budgets))
	for _, budget := range budgets {
		spent := spentByCategory[budget.BudgetCategory]
		lines = append(lines, models.BudgetBreakdownLine{
			BudgetCategory:  budget.BudgetCategory,
			AnnualBudget:    budget.BudgetLimit,
			AmountSpent:     spent,
			RemainingBudget: budget.BudgetLimit - spent,
			PercentageSpent: money.PercentOf(spent, budget.BudgetLimit),
		})
	}

	return lines
}

// budgetsByMonth sums budget limits by the month label of their creation time.
func budgetsByMonth(budgets []models.Budget, loc *time.Location) map[string]int64 {
	totals := make(map[string]int64)
	for _, budget := range budgets {
		totals[timewindow.MonthLabel(budget.CreatedAt.In(loc))] += budget.BudgetLimit
	}
	return totals
}

// monthlySpendingTrend pairs each spending month with the budget created that
// month. A month without budget falls back to the preceding entry's own
// month budget; the first entry never falls back.
func monthlySpendingTrend(monthTotals []models.SpendingMonth, monthlyBudgets map[string]int64) []models.MonthlySpendingLine {
	lines := make([]models.MonthlySpendingLine, 0, len(monthTotals))

	for i, month := range monthTotals {
		totalBudget := monthlyBudgets[month.Month]
		if totalBudget == 0 && i > 0 {
			totalBudget = monthlyBudgets[monthTotals[i-1].Month]
		}

		lines = append(lines, models.MonthlySpendingLine{
			Month:           month.Month,
			TotalExpenses:   month.Amount,
			TotalBudget:     totalBudget,
			PercentageSpent: money.PercentOf(month.Amount, totalBudget),
		})
	}

	return lines
}
