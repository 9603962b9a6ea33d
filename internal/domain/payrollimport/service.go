package payrollimport

import "context"

// ImportService defines the interface for the payroll CSV import pipeline
type ImportService interface {
	// Run the full pipeline: read, validate structure, transform, store
	Import(ctx context.Context, req ImportRequest) (ImportResult, error)

	// List past import runs, newest first
	History(ctx context.Context, limit int) ([]HistoryEntry, error)
}
