package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"budget-tracker/internal/models"
	"budget-tracker/internal/repositories"
	"budget-tracker/internal/repositories/repository_mocks"
	"budget-tracker/internal/timewindow"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReportServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	mockBudgetRepo  *repository_mocks.MockBudgetRepositoryInterface
	mockExpenseRepo *repository_mocks.MockExpenseRepositoryInterface
	service         ReportServiceInterface
	userID          uuid.UUID
	now             time.Time
}

func (s *ReportServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockBudgetRepo = repository_mocks.NewMockBudgetRepositoryInterface(s.ctrl)
	s.mockExpenseRepo = repository_mocks.NewMockExpenseRepositoryInterface(s.ctrl)
	s.service = NewReportService(s.mockBudgetRepo, s.mockExpenseRepo)
	s.userID = uuid.New()
	s.now = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
}

func (s *ReportServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}

func (s *ReportServiceTestSuite) budget(category string, limit int64, createdAt time.Time) models.Budget {
	return models.Budget{
		ID:             uuid.New(),
		UserID:         s.userID,
		BudgetCategory: category,
		BudgetLimit:    limit,
		Timestamp:      createdAt.Unix(),
		CreatedAt:      createdAt,
	}
}

func (s *ReportServiceTestSuite) expense(category, name string, amount int64, createdAt time.Time) models.Expense {
	return models.Expense{
		ID:             uuid.New(),
		UserID:         s.userID,
		BudgetID:       uuid.New(),
		BudgetCategory: category,
		ExpenseName:    name,
		Amount:         amount,
		Timestamp:      createdAt.Unix(),
		CreatedAt:      createdAt,
	}
}

type monthlyReads struct {
	budgetTotal  int64
	expenseTotal int64
	byCategory   []models.CategoryTotal
	budgets      []models.Budget
	expenses     []models.Expense
}

func (s *ReportServiceTestSuite) expectMonthly(r monthlyReads) {
	window := timewindow.CurrentMonth(s.now)

	s.mockBudgetRepo.EXPECT().SumLimitInWindow(gomock.Any(), s.userID, window).Return(r.budgetTotal, nil)
	s.mockExpenseRepo.EXPECT().SumAmountInWindow(gomock.Any(), s.userID, window).Return(r.expenseTotal, nil)
	s.mockExpenseRepo.EXPECT().GroupByCategoryInWindow(gomock.Any(), s.userID, window, repositories.OrderByTotal).Return(r.byCategory, nil)
	s.mockBudgetRepo.EXPECT().ListWithExpensesInWindow(gomock.Any(), s.userID, window).Return(r.budgets, nil)
	s.mockExpenseRepo.EXPECT().ListInWindow(gomock.Any(), s.userID, window, 0).Return(r.expenses, nil)
}

type yearlyReads struct {
	budgetTotal  int64
	expenseTotal int64
	budgets      []models.Budget
	topExpenses  []models.Expense
	byCategory   []models.CategoryTotal
	byTimestamp  []models.TimestampTotal
}

func (s *ReportServiceTestSuite) expectYearly(r yearlyReads) {
	window := timewindow.CurrentYear(s.now)

	s.mockBudgetRepo.EXPECT().SumLimitInWindow(gomock.Any(), s.userID, window).Return(r.budgetTotal, nil)
	s.mockBudgetRepo.EXPECT().ListInWindow(gomock.Any(), s.userID, window).Return(r.budgets, nil)
	s.mockExpenseRepo.EXPECT().SumAmountInWindow(gomock.Any(), s.userID, window).Return(r.expenseTotal, nil)
	s.mockExpenseRepo.EXPECT().ListInWindow(gomock.Any(), s.userID, window, models.TopExpensesLimit).Return(r.topExpenses, nil)
	s.mockExpenseRepo.EXPECT().GroupByCategoryInWindow(gomock.Any(), s.userID, window, repositories.OrderByCount).Return(r.byCategory, nil)
	s.mockExpenseRepo.EXPECT().SumByTimestampInWindow(gomock.Any(), s.userID, window).Return(r.byTimestamp, nil)
}

func (s *ReportServiceTestSuite) TestGetMonthlyReport_JoinsCategoriesWithBudgets() {
	march := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	groceries := s.budget("Groceries", 50000, march)
	groceries.Expenses = []models.Expense{
		s.expense("Groceries", "Weekly shop", 30000, march),
		s.expense("Groceries", "Market", 10000, march.Add(time.Hour)),
	}
	transport := s.budget("Transport", 20000, march)
	transport.Expenses = []models.Expense{s.expense("Transport", "Train pass", 25000, march)}

	expenses := []models.Expense{
		groceries.Expenses[0],
		transport.Expenses[0],
		groceries.Expenses[1],
	}

	s.expectMonthly(monthlyReads{
		budgetTotal:  70000,
		expenseTotal: 65000,
		byCategory: []models.CategoryTotal{
			{BudgetCategory: "Groceries", Count: 2, Total: 40000},
			{BudgetCategory: "Transport", Count: 1, Total: 25000},
		},
		budgets:  []models.Budget{groceries, transport},
		expenses: expenses,
	})

	report, err := s.service.GetMonthlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Equal("March 2024", report.Month)
	s.Equal(timewindow.CurrentMonth(s.now).Start, report.PeriodStart)
	s.Equal(int64(70000), report.TotalMonthlyBudget)
	s.Equal(int64(65000), report.TotalExpenses)
	s.Equal(int64(5000), report.RemainingBudget())
	s.InDelta(92.86, float64(report.PercentageSpent()), 0.001)

	s.Require().NotNil(report.HighestExpenseBudget)
	s.Equal("Groceries", report.HighestExpenseBudget.BudgetCategory)
	s.Equal(int64(40000), report.HighestExpenseBudget.TotalSpent)

	s.Require().NotNil(report.LargestIndividualExpense)
	s.Equal("Weekly shop", report.LargestIndividualExpense.ExpenseName)

	s.Require().Len(report.Budgets, 2)
	s.Equal("Groceries", report.Budgets[0].BudgetCategory)
	s.Require().NotNil(report.Budgets[0].BudgetLimit)
	s.Equal(int64(50000), *report.Budgets[0].BudgetLimit)
	s.Equal([]models.ExpenseItem{
		{ExpenseName: "Weekly shop", Amount: 30000},
		{ExpenseName: "Market", Amount: 10000},
	}, report.Budgets[0].Expenses)

	remaining, ok := report.Budgets[1].Remaining()
	s.True(ok)
	s.Equal(int64(-5000), remaining)
	s.Len(report.Expenses, 3)
}

func (s *ReportServiceTestSuite) TestGetMonthlyReport_LastBudgetOfCategoryWins() {
	march := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	first := s.budget("Food", 10000, march)
	first.Expenses = []models.Expense{s.expense("Food", "Lunch", 4000, march)}
	second := s.budget("Food", 30000, march.Add(24*time.Hour))
	second.Expenses = []models.Expense{s.expense("Food", "Dinner", 6000, march)}

	s.expectMonthly(monthlyReads{
		budgetTotal:  40000,
		expenseTotal: 10000,
		byCategory:   []models.CategoryTotal{{BudgetCategory: "Food", Count: 2, Total: 10000}},
		budgets:      []models.Budget{first, second},
		expenses:     append(second.Expenses, first.Expenses...),
	})

	report, err := s.service.GetMonthlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Require().Len(report.Budgets, 1)
	s.Equal(int64(30000), *report.Budgets[0].BudgetLimit)
	s.Equal([]models.ExpenseItem{{ExpenseName: "Dinner", Amount: 6000}}, report.Budgets[0].Expenses)
	s.Equal(int64(10000), report.Budgets[0].TotalSpent)
}

func (s *ReportServiceTestSuite) TestGetMonthlyReport_CategoryWithoutBudget() {
	march := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	orphan := s.expense("Gifts", "Flowers", 2500, march)

	s.expectMonthly(monthlyReads{
		expenseTotal: 2500,
		byCategory:   []models.CategoryTotal{{BudgetCategory: "Gifts", Count: 1, Total: 2500}},
		expenses:     []models.Expense{orphan},
	})

	report, err := s.service.GetMonthlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Require().Len(report.Budgets, 1)
	s.Nil(report.Budgets[0].BudgetLimit)
	s.Nil(report.Budgets[0].Expenses)
	_, ok := report.Budgets[0].Remaining()
	s.False(ok)
	s.False(report.Budgets[0].PercentageSpent().IsFinite())
	s.True(math.IsInf(float64(report.PercentageSpent()), 1))
}

func (s *ReportServiceTestSuite) TestGetMonthlyReport_Empty() {
	s.expectMonthly(monthlyReads{})

	report, err := s.service.GetMonthlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Equal(int64(0), report.TotalMonthlyBudget)
	s.Equal(int64(0), report.TotalExpenses)
	s.Nil(report.HighestExpenseBudget)
	s.Nil(report.LargestIndividualExpense)
	s.NotNil(report.Budgets)
	s.Empty(report.Budgets)
	s.NotNil(report.Expenses)
	s.Empty(report.Expenses)
	s.False(report.PercentageSpent().IsFinite())
}

func (s *ReportServiceTestSuite) TestGetMonthlyReport_ReadFailureAbortsReport() {
	window := timewindow.CurrentMonth(s.now)
	dbErr := errors.New("connection reset")

	s.mockBudgetRepo.EXPECT().SumLimitInWindow(gomock.Any(), s.userID, window).Return(int64(0), dbErr)
	s.mockExpenseRepo.EXPECT().SumAmountInWindow(gomock.Any(), s.userID, window).Return(int64(0), nil).MaxTimes(1)
	s.mockExpenseRepo.EXPECT().GroupByCategoryInWindow(gomock.Any(), s.userID, window, repositories.OrderByTotal).Return(nil, nil).MaxTimes(1)
	s.mockBudgetRepo.EXPECT().ListWithExpensesInWindow(gomock.Any(), s.userID, window).Return(nil, nil).MaxTimes(1)
	s.mockExpenseRepo.EXPECT().ListInWindow(gomock.Any(), s.userID, window, 0).Return(nil, nil).MaxTimes(1)

	report, err := s.service.GetMonthlyReport(context.Background(), s.userID, s.now)

	s.Nil(report)
	s.Require().Error(err)
	s.ErrorIs(err, dbErr)
}

func (s *ReportServiceTestSuite) TestGetYearlyReport_Aggregates() {
	jan := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 5, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)

	rent := s.budget("Rent", 100000, jan)
	food := s.budget("Food", 40000, jan)
	fun := s.budget("Fun", 20000, mar)

	top := []models.Expense{
		s.expense("Rent", "January rent", 90000, jan),
		s.expense("Food", "Groceries", 30000, feb),
		s.expense("Food", "Takeaway", 15000, mar),
		s.expense("Fun", "Cinema", 5000, mar),
	}

	s.expectYearly(yearlyReads{
		budgetTotal:  160000,
		expenseTotal: 140000,
		budgets:      []models.Budget{rent, food, fun},
		topExpenses:  top,
		byCategory: []models.CategoryTotal{
			{BudgetCategory: "Food", Count: 2, Total: 45000},
			{BudgetCategory: "Rent", Count: 1, Total: 90000},
			{BudgetCategory: "Fun", Count: 1, Total: 5000},
		},
		byTimestamp: []models.TimestampTotal{
			{Timestamp: jan.Unix(), Total: 90000},
			{Timestamp: feb.Unix(), Total: 30000},
			{Timestamp: mar.Unix(), Total: 15000},
			{Timestamp: mar.Add(time.Hour).Unix(), Total: 5000},
		},
	})

	report, err := s.service.GetYearlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Equal(2024, report.Year)
	s.Equal(int64(160000), report.TotalAnnualBudget)
	s.Equal(int64(140000), report.TotalExpenses)
	s.Equal(int64(20000), report.TotalSavings)
	s.True(decimal.RequireFromString("11666.67").Equal(report.AverageMonthlyExpense), report.AverageMonthlyExpense.String())
	s.Equal("Food", report.MostFrequentCategory)
	s.Require().NotNil(report.LargestExpense)
	s.Equal("January rent", report.LargestExpense.ExpenseName)
	s.Len(report.TopExpenses, 4)

	s.Equal(models.SpendingMonth{Month: "January 2024", Amount: 90000}, report.HighestSpendingMonth)
	s.Equal(models.SpendingMonth{Month: "March 2024", Amount: 20000}, report.LowestSpendingMonth)

	s.Require().Len(report.BudgetBreakdown, 3)
	s.Equal(models.BudgetBreakdownLine{
		BudgetCategory:  "Rent",
		AnnualBudget:    100000,
		AmountSpent:     90000,
		RemainingBudget: 10000,
		PercentageSpent: 90,
	}, report.BudgetBreakdown[0])
	s.Equal(int64(-5000), report.BudgetBreakdown[1].RemainingBudget)
	s.InDelta(112.5, float64(report.BudgetBreakdown[1].PercentageSpent), 0.001)
	s.InDelta(25, float64(report.BudgetBreakdown[2].PercentageSpent), 0.001)

	s.Require().Len(report.MonthlySpending, 3)
	s.Equal("January 2024", report.MonthlySpending[0].Month)
	s.Equal(int64(140000), report.MonthlySpending[0].TotalBudget)
	s.InDelta(64.29, float64(report.MonthlySpending[0].PercentageSpent), 0.001)

	// February has no budget of its own and borrows January's.
	s.Equal(int64(140000), report.MonthlySpending[1].TotalBudget)
	s.InDelta(21.43, float64(report.MonthlySpending[1].PercentageSpent), 0.001)

	s.Equal(int64(20000), report.MonthlySpending[2].TotalExpenses)
	s.Equal(int64(20000), report.MonthlySpending[2].TotalBudget)
	s.InDelta(100, float64(report.MonthlySpending[2].PercentageSpent), 0.001)
}

func (s *ReportServiceTestSuite) TestGetYearlyReport_FallbackDoesNotChain() {
	jan := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
	mar := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	s.expectYearly(yearlyReads{
		budgetTotal:  50000,
		expenseTotal: 3000,
		budgets:      []models.Budget{s.budget("Misc", 50000, jan)},
		byCategory:   []models.CategoryTotal{{BudgetCategory: "Misc", Count: 3, Total: 3000}},
		byTimestamp: []models.TimestampTotal{
			{Timestamp: jan.Unix(), Total: 1000},
			{Timestamp: feb.Unix(), Total: 1000},
			{Timestamp: mar.Unix(), Total: 1000},
		},
	})

	report, err := s.service.GetYearlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Require().Len(report.MonthlySpending, 3)
	s.Equal(int64(50000), report.MonthlySpending[1].TotalBudget)
	s.Equal(int64(0), report.MonthlySpending[2].TotalBudget)
	s.False(report.MonthlySpending[2].PercentageSpent.IsFinite())

	// Ties keep first-seen order.
	s.Equal("January 2024", report.LowestSpendingMonth.Month)
	s.Equal("March 2024", report.HighestSpendingMonth.Month)
}

func (s *ReportServiceTestSuite) TestGetYearlyReport_FirstMonthWithoutBudget() {
	feb := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)

	s.expectYearly(yearlyReads{
		expenseTotal: 1200,
		byCategory:   []models.CategoryTotal{{BudgetCategory: "Books", Count: 1, Total: 1200}},
		byTimestamp:  []models.TimestampTotal{{Timestamp: feb.Unix(), Total: 1200}},
	})

	report, err := s.service.GetYearlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Require().Len(report.MonthlySpending, 1)
	s.Equal(int64(0), report.MonthlySpending[0].TotalBudget)
	s.True(math.IsInf(float64(report.MonthlySpending[0].PercentageSpent), 1))
	s.Equal(report.LowestSpendingMonth, report.HighestSpendingMonth)
	s.Equal(models.SpendingMonth{Month: "February 2024", Amount: 1200}, report.HighestSpendingMonth)
	s.True(decimal.NewFromInt(100).Equal(report.AverageMonthlyExpense))
}

func (s *ReportServiceTestSuite) TestGetYearlyReport_Empty() {
	s.expectYearly(yearlyReads{})

	report, err := s.service.GetYearlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Equal(models.NotAvailable, report.MostFrequentCategory)
	s.Equal(models.SpendingMonth{Month: models.NotAvailable}, report.HighestSpendingMonth)
	s.Equal(models.SpendingMonth{Month: models.NotAvailable}, report.LowestSpendingMonth)
	s.Nil(report.LargestExpense)
	s.True(report.AverageMonthlyExpense.IsZero())
	s.NotNil(report.BudgetBreakdown)
	s.NotNil(report.TopExpenses)
	s.NotNil(report.MonthlySpending)
	s.Empty(report.MonthlySpending)
}

func (s *ReportServiceTestSuite) TestGetYearlyReport_BudgetWithoutSpending() {
	jan := time.Date(2024, time.January, 3, 12, 0, 0, 0, time.UTC)
	category := gofakeit.Word()

	s.expectYearly(yearlyReads{
		budgetTotal: 75000,
		budgets:     []models.Budget{s.budget(category, 75000, jan)},
	})

	report, err := s.service.GetYearlyReport(context.Background(), s.userID, s.now)

	s.Require().NoError(err)
	s.Require().Len(report.BudgetBreakdown, 1)
	s.Equal(category, report.BudgetBreakdown[0].BudgetCategory)
	s.Equal(int64(0), report.BudgetBreakdown[0].AmountSpent)
	s.Equal(int64(75000), report.BudgetBreakdown[0].RemainingBudget)
	s.Equal(0.0, float64(report.BudgetBreakdown[0].PercentageSpent))
	s.Equal(int64(75000), report.TotalSavings)
}

func (s *ReportServiceTestSuite) TestGetYearlyReport_ReadFailureAbortsReport() {
	window := timewindow.CurrentYear(s.now)
	dbErr := errors.New("deadline exceeded")

	s.mockBudgetRepo.EXPECT().SumLimitInWindow(gomock.Any(), s.userID, window).Return(int64(0), nil).MaxTimes(1)
	s.mockBudgetRepo.EXPECT().ListInWindow(gomock.Any(), s.userID, window).Return(nil, nil).MaxTimes(1)
	s.mockExpenseRepo.EXPECT().SumAmountInWindow(gomock.Any(), s.userID, window).Return(int64(0), nil).MaxTimes(1)
	s.mockExpenseRepo.EXPECT().ListInWindow(gomock.Any(), s.userID, window, models.TopExpensesLimit).Return(nil, nil).MaxTimes(1)
	s.mockExpenseRepo.EXPECT().GroupByCategoryInWindow(gomock.Any(), s.userID, window, repositories.OrderByCount).Return(nil, nil).MaxTimes(1)
	s.mockExpenseRepo.EXPECT().SumByTimestampInWindow(gomock.Any(), s.userID, window).Return(nil, dbErr)

	report, err := s.service.GetYearlyReport(context.Background(), s.userID, s.now)

	s.Nil(report)
	s.ErrorIs(err, dbErr)
}

func TestMonthTotalsByLabel_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 2024-02-01 02:00 UTC is still January in UTC-5.
	ts := time.Date(2024, time.February, 1, 2, 0, 0, 0, time.UTC).Unix()

	totals := monthTotalsByLabel([]models.TimestampTotal{{Timestamp: ts, Total: 700}}, loc)

	if len(totals) != 1 || totals[0].Month != "January 2024" || totals[0].Amount != 700 {
		t.Fatalf("unexpected month totals: %+v", totals)
	}
}
