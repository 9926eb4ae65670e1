package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"budget-tracker/internal/dto"
	"budget-tracker/internal/errors"
	"budget-tracker/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// DownloadMessage accompanies every generated report link
const DownloadMessage = "Url valid for 5 minutes only!"

// ReportHandler serves report generation and the JSON report views
type ReportHandler struct {
	generator     services.ReportGeneratorInterface
	reportService services.ReportServiceInterface
	now           func() time.Time
}

// NewReportHandler creates a new report handler
func NewReportHandler(generator services.ReportGeneratorInterface, reportService services.ReportServiceInterface) *ReportHandler {
	return &ReportHandler{
		generator:     generator,
		reportService: reportService,
		now:           time.Now,
	}
}

// GenerateReport renders the caller's monthly or yearly report to a workbook
// and returns a short-lived download link.
// @Summary Generate report
// @Tags Reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.GenerateReportRequest true "Report type and display name"
// @Success 200 {object} dto.GenerateReportResponse
// @Failure 400 {object} errors.ErrorResponse "Invalid report type - REPORT_001, invalid username - REPORT_002"
// @Failure 500 {object} errors.ErrorResponse "System error - SYSTEM_001"
// @Router /api/user/generate-report [post]
func (h *ReportHandler) GenerateReport(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.GenerateReportRequest
	if err := c.Bind(&req); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
	}
	if err := c.Validate(req); err != nil {
		return SendError(c, reportValidationCode(err))
	}

	report, err := h.generator.Generate(c.Request().Context(), userID, req.ReportType, req.UserName, h.now())
	if err != nil {
		switch {
		case stderrors.Is(err, services.ErrInvalidReportType):
			return SendError(c, errors.ReportInvalidType)
		case stderrors.Is(err, services.ErrInvalidUserName):
			return SendError(c, errors.ReportInvalidUserName)
		default:
			return SendSystemError(c, err)
		}
	}

	return c.JSON(http.StatusOK, dto.GenerateReportResponse{
		Message:           DownloadMessage,
		DownloadURL:       report.DownloadURL,
		GeneratedFileName: report.FileName,
	})
}

// MonthlyReport returns the current month's aggregation as JSON
// @Summary Monthly report
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.MonthlyReport
// @Router /api/report/monthly [get]
func (h *ReportHandler) MonthlyReport(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	report, err := h.reportService.GetMonthlyReport(c.Request().Context(), userID, h.now())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

// YearlyReport returns the current year's aggregation as JSON
// @Summary Yearly report
// @Tags Reports
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.YearlyReport
// @Router /api/report/yearly [get]
func (h *ReportHandler) YearlyReport(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	report, err := h.reportService.GetYearlyReport(c.Request().Context(), userID, h.now())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

// reportValidationCode reports a bad report type ahead of a bad user name
func reportValidationCode(err error) errors.ErrorCode {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "reportType" {
				return errors.ReportInvalidType
			}
		}
	}
	return errors.ReportInvalidUserName
}
