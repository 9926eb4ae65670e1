package models

import (
	"time"

	"budget-tracker/internal/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReportType string

const (
	ReportTypeMonthly ReportType = "monthly"
	ReportTypeYearly  ReportType = "yearly"
)

// MonthlySpendAlertPercent is the share of a month's budget above which the
// trend row is flagged.
const MonthlySpendAlertPercent = 80

// TopExpensesLimit caps the yearly "largest expenses" list.
const TopExpensesLimit = 10

// NotAvailable is shown wherever a value has no data behind it.
const NotAvailable = "N/A"

func (r ReportType) IsValid() bool {
	return r == ReportTypeMonthly || r == ReportTypeYearly
}

// SheetName is the single worksheet title for the report type.
func (r ReportType) SheetName() string {
	switch r {
	case ReportTypeMonthly:
		return "Monthly Report"
	case ReportTypeYearly:
		return "Yearly Report"
	default:
		return ""
	}
}

type CategorySpend struct {
	BudgetCategory string `json:"budget_category"`
	TotalSpent     int64  `json:"total_spent"`
}

type ExpenseItem struct {
	ExpenseName string `json:"expense_name"`
	Amount      int64  `json:"amount"`
}

// MonthlyBudgetLine joins a spending category with the budget row of the same
// category. BudgetLimit and Expenses are nil when no budget row matched.
type MonthlyBudgetLine struct {
	BudgetCategory string        `json:"budget_category"`
	TotalSpent     int64         `json:"total_spent"`
	BudgetLimit    *int64        `json:"budget_limit"`
	Expenses       []ExpenseItem `json:"expenses"`
}

// Remaining is limit minus spent; ok is false when there is no budget row.
func (l MonthlyBudgetLine) Remaining() (remaining int64, ok bool) {
	if l.BudgetLimit == nil {
		return 0, false
	}
	return *l.BudgetLimit - l.TotalSpent, true
}

func (l MonthlyBudgetLine) PercentageSpent() money.Percent {
	if l.BudgetLimit == nil {
		return money.PercentOf(0, 0)
	}
	return money.PercentOf(l.TotalSpent, *l.BudgetLimit)
}

type MonthlyReport struct {
	Month                    string              `json:"month"`
	PeriodStart              time.Time           `json:"period_start"`
	PeriodEnd                time.Time           `json:"period_end"`
	TotalMonthlyBudget       int64               `json:"total_monthly_budget"`
	TotalExpenses            int64               `json:"total_expenses"`
	HighestExpenseBudget     *CategorySpend      `json:"highest_expense_budget"`
	LargestIndividualExpense *Expense            `json:"largest_individual_expense"`
	Budgets                  []MonthlyBudgetLine `json:"budgets"`
	Expenses                 []Expense           `json:"expenses"`
}

func (r *MonthlyReport) RemainingBudget() int64 {
	return r.TotalMonthlyBudget - r.TotalExpenses
}

func (r *MonthlyReport) PercentageSpent() money.Percent {
	return money.PercentOf(r.TotalExpenses, r.TotalMonthlyBudget)
}

type SpendingMonth struct {
	Month  string `json:"month"`
	Amount int64  `json:"amount"`
}

type BudgetBreakdownLine struct {
	BudgetCategory  string        `json:"budget_category"`
	AnnualBudget    int64         `json:"annual_budget"`
	AmountSpent     int64         `json:"amount_spent"`
	RemainingBudget int64         `json:"remaining_budget"`
	PercentageSpent money.Percent `json:"percentage_spent"`
}

type MonthlySpendingLine struct {
	Month           string        `json:"month"`
	TotalExpenses   int64         `json:"total_expenses"`
	TotalBudget     int64         `json:"total_budget"`
	PercentageSpent money.Percent `json:"percentage_spent"`
}

type YearlyReport struct {
	Year                  int                   `json:"year"`
	PeriodStart           time.Time             `json:"period_start"`
	PeriodEnd             time.Time             `json:"period_end"`
	TotalAnnualBudget     int64                 `json:"total_annual_budget"`
	TotalExpenses         int64                 `json:"total_expenses"`
	TotalSavings          int64                 `json:"total_savings"`
	AverageMonthlyExpense decimal.Decimal       `json:"average_monthly_expense"`
	LargestExpense        *Expense              `json:"largest_expense"`
	MostFrequentCategory  string                `json:"most_frequent_category"`
	HighestSpendingMonth  SpendingMonth         `json:"highest_spending_month"`
	LowestSpendingMonth   SpendingMonth         `json:"lowest_spending_month"`
	BudgetBreakdown       []BudgetBreakdownLine `json:"budget_breakdown"`
	TopExpenses           []Expense             `json:"top_expenses"`
	MonthlySpending       []MonthlySpendingLine `json:"monthly_spending"`
}

func (r *YearlyReport) PercentageSpent() money.Percent {
	return money.PercentOf(r.TotalExpenses, r.TotalAnnualBudget)
}

// CategoryTotal is one row of an expense grouping by category.
type CategoryTotal struct {
	BudgetCategory string `gorm:"column:budget_category"`
	Count          int64  `gorm:"column:expense_count"`
	Total          int64  `gorm:"column:total_amount"`
}

// TimestampTotal is one row of an expense grouping by timestamp.
type TimestampTotal struct {
	Timestamp int64 `gorm:"column:timestamp"`
	Total     int64 `gorm:"column:total_amount"`
}

// BudgetSpendDrift reports a budget whose running counter disagrees with its expenses.
type BudgetSpendDrift struct {
	BudgetID       uuid.UUID `gorm:"column:budget_id" json:"budget_id"`
	BudgetCategory string    `gorm:"column:budget_category" json:"budget_category"`
	AmountSpent    int64     `gorm:"column:amount_spent" json:"amount_spent"`
	ExpenseTotal   int64     `gorm:"column:expense_total" json:"expense_total"`
}
