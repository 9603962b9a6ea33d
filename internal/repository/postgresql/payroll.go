package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/payrollimport"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/database"
)

type payrollImportRepository struct {
	db *database.DB
}

func NewPayrollImportRepository(db *database.DB) payrollimport.ImportRepository {
	return &payrollImportRepository{db: db}
}

// UpsertBatch writes the batch keyed on (emp_id, payroll_date). The insert
// reports per-row whether it created or replaced, so imported and updated
// counts come back from the same statement.
func (r *payrollImportRepository) UpsertBatch(ctx context.Context, records []payrollimport.PayrollRecord) (int, int, error) {
	imported, updated := 0, 0

	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO payroll_records (
				emp_id, payroll_date, start_date, end_date, week, month,
				gross_pay_pre_sacrifice, gross_pay_post_sacrifice, gross_pay_taxable,
				paye_tax, paye_ni, employer_ni, paye_pension, employer_pension,
				student_loan, ssp, spp, net_pay
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
			ON CONFLICT (emp_id, payroll_date) DO UPDATE SET
				start_date = EXCLUDED.start_date,
				end_date = EXCLUDED.end_date,
				week = EXCLUDED.week,
				month = EXCLUDED.month,
				gross_pay_pre_sacrifice = EXCLUDED.gross_pay_pre_sacrifice,
				gross_pay_post_sacrifice = EXCLUDED.gross_pay_post_sacrifice,
				gross_pay_taxable = EXCLUDED.gross_pay_taxable,
				paye_tax = EXCLUDED.paye_tax,
				paye_ni = EXCLUDED.paye_ni,
				employer_ni = EXCLUDED.employer_ni,
				paye_pension = EXCLUDED.paye_pension,
				employer_pension = EXCLUDED.employer_pension,
				student_loan = EXCLUDED.student_loan,
				ssp = EXCLUDED.ssp,
				spp = EXCLUDED.spp,
				net_pay = EXCLUDED.net_pay,
				updated_at = NOW()
			RETURNING (xmax = 0) AS inserted
		`

		for _, rec := range records {
			var inserted bool
			err := tx.QueryRow(ctx, query,
				rec.EmpID, rec.PayrollDate, rec.StartDate, rec.EndDate, rec.Week, rec.Month,
				rec.GrossPayPreSacrifice, rec.GrossPayPostSacrifice, rec.GrossPayTaxable,
				rec.PayeTax, rec.PayeNI, rec.EmployerNI, rec.PayePension, rec.EmployerPension,
				rec.StudentLoan, rec.SSP, rec.SPP, rec.NetPay,
			).Scan(&inserted)
			if err != nil {
				return fmt.Errorf("failed to upsert payroll record %s: %w", rec.Key(), err)
			}
			if inserted {
				imported++
			} else {
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return imported, updated, nil
}

func (r *payrollImportRepository) InsertHistory(ctx context.Context, entry payrollimport.HistoryEntry) error {
	query := `
		INSERT INTO payroll_import_history (id, file_name, imported, updated, error_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.FileName, entry.Imported, entry.Updated, entry.ErrorCount, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert import history: %w", err)
	}
	return nil
}

func (r *payrollImportRepository) ListHistory(ctx context.Context, limit int) ([]payrollimport.HistoryEntry, error) {
	query := `
		SELECT id, file_name, imported, updated, error_count, created_at
		FROM payroll_import_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import history: %w", err)
	}
	defer rows.Close()

	var entries []payrollimport.HistoryEntry
	for rows.Next() {
		var e payrollimport.HistoryEntry
		if err := rows.Scan(&e.ID, &e.FileName, &e.Imported, &e.Updated, &e.ErrorCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
