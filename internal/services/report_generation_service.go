package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/export"
	"budget-tracker/internal/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var (
	ErrInvalidReportType = errors.New("invalid report type")
	ErrInvalidUserName   = errors.New("invalid username")
)

const reportStatusSuccess = "success"

// reportGenerator runs aggregate, render and store for one request.
type reportGenerator struct {
	reports    ReportServiceInterface
	renderer   ReportRendererInterface
	store      ReportStoreInterface
	metrics    MetricsRecorderInterface
	errorLog   ErrorLoggerInterface
	baseURL    string
	publicPath string
}

func NewReportGenerator(
	reports ReportServiceInterface,
	renderer ReportRendererInterface,
	store ReportStoreInterface,
	metrics MetricsRecorderInterface,
	errorLog ErrorLoggerInterface,
	baseURL, publicPath string,
) ReportGeneratorInterface {
	return &reportGenerator{
		reports:    reports,
		renderer:   renderer,
		store:      store,
		metrics:    metrics,
		errorLog:   errorLog,
		baseURL:    strings.TrimRight(baseURL, "/"),
		publicPath: "/" + strings.Trim(publicPath, "/"),
	}
}

func (g *reportGenerator) Generate(ctx context.Context, userID uuid.UUID, reportType, userName string, now time.Time) (*dto.GeneratedReport, error) {
	rt := models.ReportType(reportType)
	if !rt.IsValid() {
		return nil, ErrInvalidReportType
	}
	if strings.TrimSpace(userName) == "" {
		return nil, ErrInvalidUserName
	}

	start := time.Now()
	file, err := g.build(ctx, rt, userID, userName, now)
	if err != nil {
		g.recordOutcome(rt, "failed", start)
		g.logFailure(ctx, "generate_report", err, userID, rt)
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			slog.Warn("failed to close workbook", "error", cerr)
		}
	}()

	name := export.SanitizeFileName(userName, reportType)
	stored, err := g.store.Save(name, file)
	if err != nil {
		g.recordOutcome(rt, "failed", start)
		g.logFailure(ctx, "store_report", err, userID, rt)
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	g.recordOutcome(rt, reportStatusSuccess, start)
	if g.metrics != nil {
		g.metrics.RecordGauge(MetricExportFilesPending, float64(g.store.PendingCount()), nil)
	}

	slog.Info("report generated",
		"user_id", userID,
		"report_type", reportType,
		"file", stored.Name,
		"expires_at", stored.ExpiresAt)

	return &dto.GeneratedReport{
		FileName:    stored.Name,
		DownloadURL: g.baseURL + g.publicPath + "/" + stored.Name + export.FileExtension,
		ExpiresAt:   stored.ExpiresAt,
	}, nil
}

func (g *reportGenerator) build(ctx context.Context, rt models.ReportType, userID uuid.UUID, userName string, now time.Time) (*excelize.File, error) {
	switch rt {
	case models.ReportTypeMonthly:
		report, err := g.reports.GetMonthlyReport(ctx, userID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate monthly report: %w", err)
		}
		file, err := g.renderer.RenderMonthly(report, userName, now)
		if err != nil {
			return nil, fmt.Errorf("failed to render monthly report: %w", err)
		}
		return file, nil

	case models.ReportTypeYearly:
		report, err := g.reports.GetYearlyReport(ctx, userID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate yearly report: %w", err)
		}
		file, err := g.renderer.RenderYearly(report, userName, now)
		if err != nil {
			return nil, fmt.Errorf("failed to render yearly report: %w", err)
		}
		return file, nil

	default:
		return nil, ErrInvalidReportType
	}
}

func (g *reportGenerator) recordOutcome(rt models.ReportType, status string, start time.Time) {
	if g.metrics == nil {
		return
	}
	tags := map[string]string{"report_type": string(rt), "status": status}
	g.metrics.IncrementCounter(MetricReportGenerated, tags)
	g.metrics.RecordProcessingTime(MetricReportGeneration, time.Since(start), tags)
}

func (g *reportGenerator) logFailure(ctx context.Context, operation string, err error, userID uuid.UUID, rt models.ReportType) {
	if g.errorLog == nil {
		slog.Error(operation+" failed", "user_id", userID, "report_type", rt, "error", err)
		return
	}
	g.errorLog.LogError(ctx, operation, err,
		"user_id", userID.String(),
		"report_type", string(rt))
}
