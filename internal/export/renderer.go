// Package export renders reports into workbooks and manages the lifetime of
// the generated files.
package export

import (
	"fmt"
	"time"

	"budget-tracker/internal/models"
	"budget-tracker/internal/money"

	"github.com/xuri/excelize/v2"
)

const (
	// DateTimeLayout prints timestamps as "15-03-2024 02:30 PM".
	DateTimeLayout = "02-01-2006 03:04 PM"

	columnWidth = 30
	alertColor  = "FF0000"
	alertGlyph  = " 🚨"
	defaultName = "Sheet1"
)

// WorkbookRenderer lays reports out as a single-sheet workbook.
type WorkbookRenderer struct {
	codec *money.Codec
}

func NewWorkbookRenderer(codec *money.Codec) *WorkbookRenderer {
	if codec == nil {
		codec = money.NewCodec(money.DefaultSymbol)
	}
	return &WorkbookRenderer{codec: codec}
}

// Render dispatches on reportType. report must be *models.MonthlyReport for
// monthly and *models.YearlyReport for yearly.
func (r *WorkbookRenderer) Render(reportType models.ReportType, report any, userName string, generatedAt time.Time) (*excelize.File, error) {
	switch reportType {
	case models.ReportTypeMonthly:
		monthly, ok := report.(*models.MonthlyReport)
		if !ok || monthly == nil {
			return nil, fmt.Errorf("monthly report expected, got %T", report)
		}
		return r.RenderMonthly(monthly, userName, generatedAt)
	case models.ReportTypeYearly:
		yearly, ok := report.(*models.YearlyReport)
		if !ok || yearly == nil {
			return nil, fmt.Errorf("yearly report expected, got %T", report)
		}
		return r.RenderYearly(yearly, userName, generatedAt)
	default:
		return nil, fmt.Errorf("unsupported report type %q", reportType)
	}
}

func (r *WorkbookRenderer) RenderMonthly(report *models.MonthlyReport, userName string, generatedAt time.Time) (*excelize.File, error) {
	w, err := newSheetWriter(models.ReportTypeMonthly.SheetName())
	if err != nil {
		return nil, err
	}

	w.title("User Details")
	w.row("User Name", userName)
	w.row("Report Month", report.Month)
	w.row("Generated On", generatedAt.Format(DateTimeLayout))
	w.blank()

	w.title("Monthly Financial Summary")
	w.header("Metric", "Value (in INR)")
	w.row("Total Monthly Budget", r.codec.Format(report.TotalMonthlyBudget))
	w.row("Total Expenses", r.codec.Format(report.TotalExpenses))
	w.row("Remaining Budget", r.codec.Format(report.RemainingBudget()))
	w.row("Percentage Spent", report.PercentageSpent().String())
	w.row("Highest Expense Category", r.categorySpend(report.HighestExpenseBudget))
	w.row("Largest Individual Expense", r.expenseLabel(report.LargestIndividualExpense))
	w.blank()

	w.title("Monthly Budget Breakdown")
	w.header("Category", "Monthly Budget", "Total Expenditure", "Remaining", "% Spent")
	for _, line := range report.Budgets {
		limit := models.NotAvailable
		remainingCell := models.NotAvailable
		remaining, ok := line.Remaining()
		if ok {
			limit = r.codec.Format(*line.BudgetLimit)
			remainingCell = r.codec.Format(remaining)
		}

		n := w.row(line.BudgetCategory, limit, r.codec.Format(line.TotalSpent), remainingCell, line.PercentageSpent().String())
		if ok && remaining < 0 {
			w.alert("D", n, remainingCell)
		}
	}
	w.blank()

	w.title("Monthly Expense Breakdown")
	w.header("Expense Name", "Category", "Amount", "Date & Time")
	for _, expense := range report.Expenses {
		w.row(expense.ExpenseName, expense.BudgetCategory, r.codec.Format(expense.Amount), expense.CreatedAt.Format(DateTimeLayout))
	}

	return w.finish()
}

func (r *WorkbookRenderer) RenderYearly(report *models.YearlyReport, userName string, generatedAt time.Time) (*excelize.File, error) {
	w, err := newSheetWriter(models.ReportTypeYearly.SheetName())
	if err != nil {
		return nil, err
	}

	w.title("User Details")
	w.row("User Name", userName)
	w.row("Report Year", report.Year)
	w.row("Generated On", generatedAt.Format(DateTimeLayout))
	w.blank()

	w.title("Annual Financial Summary")
	w.header("Metric", "Value (in INR)")
	w.row("Total Annual Budget", r.codec.Format(report.TotalAnnualBudget))
	w.row("Total Expenses (This Year)", r.codec.Format(report.TotalExpenses))
	w.row("Total Savings (This Year)", r.codec.Format(report.TotalSavings))
	w.row("Remaining Budget", r.codec.Format(report.TotalSavings))
	w.row("Percentage Spent", report.PercentageSpent().String())
	w.row("Average Monthly Expense", r.codec.FormatDecimal(report.AverageMonthlyExpense))
	w.row("Largest Expense Item", r.expenseLabel(report.LargestExpense))
	w.row("Most Frequent Expense Category", report.MostFrequentCategory)
	w.row("Month with Highest Spending", r.spendingMonth(report.HighestSpendingMonth))
	w.row("Month with Lowest Spending", r.spendingMonth(report.LowestSpendingMonth))
	w.blank()

	w.title("Annual Budget Breakdown")
	w.header("Budget Category", "Annual Budget", "Amount Spent", "Remaining Budget", "% Spent")
	for _, line := range report.BudgetBreakdown {
		remaining := r.codec.Format(line.RemainingBudget)
		n := w.row(line.BudgetCategory, r.codec.Format(line.AnnualBudget), r.codec.Format(line.AmountSpent), remaining, line.PercentageSpent.String())
		if line.RemainingBudget < 0 {
			w.alert("D", n, remaining)
		}
	}
	w.blank()

	w.title(fmt.Sprintf("Top %d Expenses of the Year", models.TopExpensesLimit))
	w.header("Expense Name", "Category", "Amount", "Date & Time")
	for _, expense := range report.TopExpenses {
		w.row(expense.ExpenseName, expense.BudgetCategory, r.codec.Format(expense.Amount), expense.CreatedAt.Format(DateTimeLayout))
	}
	w.blank()

	w.title("Monthly Spending Trend")
	w.header("Month", "Total Budget", "Total Expenses", "% Spent")
	for _, line := range report.MonthlySpending {
		expenses := r.codec.Format(line.TotalExpenses)
		n := w.row(line.Month, r.codec.Format(line.TotalBudget), expenses, line.PercentageSpent.String())
		if line.PercentageSpent.Exceeds(models.MonthlySpendAlertPercent) {
			w.alert("C", n, expenses)
		}
	}

	return w.finish()
}

func (r *WorkbookRenderer) categorySpend(c *models.CategorySpend) string {
	if c == nil {
		return models.NotAvailable
	}
	return fmt.Sprintf("%s (%s)", c.BudgetCategory, r.codec.Format(c.TotalSpent))
}

func (r *WorkbookRenderer) expenseLabel(e *models.Expense) string {
	if e == nil {
		return models.NotAvailable
	}
	return fmt.Sprintf("%s (%s)", e.ExpenseName, r.codec.Format(e.Amount))
}

func (r *WorkbookRenderer) spendingMonth(m models.SpendingMonth) string {
	return fmt.Sprintf("%s (%s)", m.Month, r.codec.Format(m.Amount))
}

// sheetWriter appends rows to one sheet. The first error sticks and is
// returned by finish, so callers can write a whole layout without checking
// each call.
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	next   int
	styles struct {
		title, header, alert int
	}
	err error
}

func newSheetWriter(sheet string) (*sheetWriter, error) {
	f := excelize.NewFile()
	w := &sheetWriter{f: f, sheet: sheet, next: 1}

	if err := f.SetSheetName(defaultName, sheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "D", columnWidth); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	var err error
	if w.styles.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	if w.styles.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if w.styles.alert, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: alertColor}}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create alert style: %w", err)
	}

	return w, nil
}

// row writes values starting at column A and returns the row number used.
func (w *sheetWriter) row(values ...any) int {
	n := w.next
	w.next++
	if w.err != nil || len(values) == 0 {
		return n
	}

	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		w.err = err
		return n
	}
	if err := w.f.SetSheetRow(w.sheet, cell, &values); err != nil {
		w.err = fmt.Errorf("failed to write row %d: %w", n, err)
	}
	return n
}

func (w *sheetWriter) styled(style int, values ...any) {
	n := w.row(values...)
	if w.err != nil {
		return
	}

	first, _ := excelize.CoordinatesToCellName(1, n)
	last, _ := excelize.CoordinatesToCellName(len(values), n)
	if err := w.f.SetCellStyle(w.sheet, first, last, style); err != nil {
		w.err = fmt.Errorf("failed to style row %d: %w", n, err)
	}
}

func (w *sheetWriter) title(text string) {
	w.styled(w.styles.title, text)
}

func (w *sheetWriter) header(labels ...string) {
	values := make([]any, len(labels))
	for i, l := range labels {
		values[i] = l
	}
	w.styled(w.styles.header, values...)
}

func (w *sheetWriter) blank() {
	w.next++
}

// alert rewrites one cell of an already written row in the alert style.
func (w *sheetWriter) alert(col string, n int, value string) {
	if w.err != nil {
		return
	}

	cell := fmt.Sprintf("%s%d", col, n)
	if err := w.f.SetCellStr(w.sheet, cell, value+alertGlyph); err != nil {
		w.err = err
		return
	}
	if err := w.f.SetCellStyle(w.sheet, cell, cell, w.styles.alert); err != nil {
		w.err = fmt.Errorf("failed to style alert cell %s: %w", cell, err)
	}
}

func (w *sheetWriter) finish() (*excelize.File, error) {
	if w.err != nil {
		_ = w.f.Close()
		return nil, w.err
	}
	return w.f, nil
}
