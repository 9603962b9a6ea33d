package reporting

import "context"

// ReportService defines the interface for report generation and export
type ReportService interface {
	// List the available report schemas
	ListSchemas(ctx context.Context) []SchemaSummary

	// Generate a filtered, sorted report with totals and reconciled targets
	Generate(ctx context.Context, req GenerateReportRequest) (GenerateReportResponse, error)

	// Persist edited target thresholds for a report
	UpdateTargets(ctx context.Context, req UpdateTargetsRequest) error

	// Build a styled workbook for a report over a date range
	Export(ctx context.Context, req ExportRequest) (ExportResult, error)
}
