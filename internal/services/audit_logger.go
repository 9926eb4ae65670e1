package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	AuditActionCreated = "created"
	AuditActionUpdated = "updated"
	AuditActionDeleted = "deleted"
)

// AuditLogger writes one structured record per budget or expense mutation
type AuditLogger struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger: logger,
		now:    time.Now,
	}
}

func (al *AuditLogger) LogBudgetChange(ctx context.Context, userID, budgetID uuid.UUID, action string) {
	al.logger.InfoContext(ctx, "budget "+action,
		slog.String("event_type", "budget_"+action),
		slog.String("user_id", userID.String()),
		slog.String("budget_id", budgetID.String()),
		slog.Time("timestamp", al.now()),
		slog.String("trace_id", TraceIDFromContext(ctx)),
	)
}

func (al *AuditLogger) LogExpenseChange(ctx context.Context, userID, expenseID, budgetID uuid.UUID, action string, amount int64) {
	al.logger.InfoContext(ctx, "expense "+action,
		slog.String("event_type", "expense_"+action),
		slog.String("user_id", userID.String()),
		slog.String("expense_id", expenseID.String()),
		slog.String("budget_id", budgetID.String()),
		slog.Int64("amount", amount),
		slog.Time("timestamp", al.now()),
		slog.String("trace_id", TraceIDFromContext(ctx)),
	)
}

// LogSpendReconciled is a warning: drift means amount_spent was written outside the expense paths
func (al *AuditLogger) LogSpendReconciled(ctx context.Context, userID, budgetID uuid.UUID, previous, current int64) {
	al.logger.WarnContext(ctx, "budget amount spent reconciled",
		slog.String("event_type", "budget_spend_reconciled"),
		slog.String("user_id", userID.String()),
		slog.String("budget_id", budgetID.String()),
		slog.Int64("previous", previous),
		slog.Int64("current", current),
		slog.Time("timestamp", al.now()),
		slog.String("trace_id", TraceIDFromContext(ctx)),
	)
}
