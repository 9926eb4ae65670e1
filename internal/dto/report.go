package dto

import "time"

// GenerateReportRequest asks for a downloadable report of the caller's data
type GenerateReportRequest struct {
	ReportType string `json:"reportType" validate:"required,report_type"`
	UserName   string `json:"userName" validate:"required,not_blank,max=100"`
}

// GenerateReportResponse points at the generated workbook
type GenerateReportResponse struct {
	Message           string `json:"message"`
	DownloadURL       string `json:"downloadUrl"`
	GeneratedFileName string `json:"generatedFileName"`
}

// GeneratedReport is the outcome of a successful generation
type GeneratedReport struct {
	FileName    string
	DownloadURL string
	ExpiresAt   time.Time
}

// SeedResult summarizes generated demo data
type SeedResult struct {
	Budgets  int `json:"budgets"`
	Expenses int `json:"expenses"`
}
