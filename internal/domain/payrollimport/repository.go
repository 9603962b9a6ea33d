package payrollimport

import "context"

// ImportRepository stores transformed batches and the import history log.
type ImportRepository interface {
	// UpsertBatch writes the batch keyed on (emp_id, payroll_date) and
	// reports how many rows were newly inserted vs overwritten.
	UpsertBatch(ctx context.Context, records []PayrollRecord) (imported, updated int, err error)

	InsertHistory(ctx context.Context, entry HistoryEntry) error
	ListHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
}
