package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/database"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/minimumwage"
)

type reportRowRepository struct {
	db *database.DB
}

func NewReportRowRepository(db *database.DB) reporting.RowRepository {
	return &reportRowRepository{db: db}
}

func (r *reportRowRepository) RowsForReport(ctx context.Context, reportID string, start, end time.Time) ([]reporting.Row, error) {
	switch reportID {
	case "payroll":
		return r.payrollRows(ctx, start, end)
	case "utilisation":
		return r.utilisationRows(ctx, start, end)
	default:
		return nil, reporting.ErrReportNotFound
	}
}

// payrollRows aggregates stored payroll records per employee across the
// window and attaches the minimum-wage base pay for the hours they worked.
func (r *reportRowRepository) payrollRows(ctx context.Context, start, end time.Time) ([]reporting.Row, error) {
	query := `
		SELECT
			p.emp_id,
			COALESCE(e.name, p.emp_id) AS name,
			e.date_of_birth,
			SUM(p.gross_pay_post_sacrifice) AS gross_pay,
			SUM(p.gross_pay_taxable) AS taxable_pay,
			SUM(p.paye_tax) AS paye_tax,
			SUM(p.paye_ni) AS paye_ni,
			SUM(p.employer_ni) AS employer_ni,
			SUM(p.paye_pension + p.employer_pension) AS pension,
			SUM(p.student_loan) AS student_loan,
			SUM(p.ssp + p.spp) AS statutory_pay,
			SUM(p.net_pay) AS net_pay
		FROM payroll_records p
		LEFT JOIN employees e ON e.emp_id = p.emp_id
		WHERE p.payroll_date >= $1 AND p.payroll_date <= $2
		GROUP BY p.emp_id, e.name, e.date_of_birth
		ORDER BY p.emp_id
	`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll rows: %w", err)
	}
	defer rows.Close()

	type payrollRow struct {
		row reporting.Row
		dob *time.Time
	}

	var result []reporting.Row
	byEmp := make(map[string]payrollRow)
	for rows.Next() {
		var (
			empID, name                                     string
			dob                                             *time.Time
			gross, taxable, tax, ni, employerNI, pension    decimal.Decimal
			studentLoan, statutory, netPay                  decimal.Decimal
		)
		err := rows.Scan(&empID, &name, &dob, &gross, &taxable, &tax, &ni,
			&employerNI, &pension, &studentLoan, &statutory, &netPay)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll row: %w", err)
		}
		row := reporting.Row{
			"emp_id":       empID,
			"name":         name,
			"gross_pay":    gross.InexactFloat64(),
			"taxable_pay":  taxable.InexactFloat64(),
			"paye_tax":     tax.InexactFloat64(),
			"paye_ni":      ni.InexactFloat64(),
			"employer_ni":  employerNI.InexactFloat64(),
			"pension":      pension.InexactFloat64(),
			"student_loan": studentLoan.InexactFloat64(),
			"statutory":    statutory.InexactFloat64(),
			"net_pay":      netPay.InexactFloat64(),
		}
		byEmp[empID] = payrollRow{row: row, dob: dob}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hours, err := r.dailyHours(ctx, start, end)
	if err != nil {
		return nil, err
	}
	for empID, pr := range byEmp {
		if pr.dob == nil {
			continue
		}
		base, ok := minimumwage.BasePayForHours(*pr.dob, hours[empID])
		if !ok {
			continue
		}
		pr.row["base_pay"] = base.Total.InexactFloat64()
		pr.row["base_rate"] = base.MeanRate.InexactFloat64()
	}
	return result, nil
}

// dailyHours returns worked hours per employee per day inside the window,
// keyed the way the wage resolver expects.
func (r *reportRowRepository) dailyHours(ctx context.Context, start, end time.Time) (map[string]map[time.Time]decimal.Decimal, error) {
	query := `
		SELECT emp_id, date_trunc('day', started_at) AS day,
			SUM(EXTRACT(EPOCH FROM (ended_at - started_at)) / 3600.0) AS hours
		FROM timesheet_events
		WHERE started_at >= $1 AND started_at < $2 + INTERVAL '1 day'
			AND ended_at IS NOT NULL
		GROUP BY emp_id, day
	`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get timesheet hours: %w", err)
	}
	defer rows.Close()

	hours := make(map[string]map[time.Time]decimal.Decimal)
	for rows.Next() {
		var empID string
		var day time.Time
		var worked decimal.Decimal
		if err := rows.Scan(&empID, &day, &worked); err != nil {
			return nil, fmt.Errorf("failed to scan timesheet hours: %w", err)
		}
		if hours[empID] == nil {
			hours[empID] = make(map[time.Time]decimal.Decimal)
		}
		hours[empID][day] = worked
	}
	return hours, rows.Err()
}

// utilisationRows compares scheduled shift time against worked timesheet
// time per agent across the window.
func (r *reportRowRepository) utilisationRows(ctx context.Context, start, end time.Time) ([]reporting.Row, error) {
	query := `
		SELECT
			s.emp_id,
			COALESCE(e.name, s.emp_id) AS agent,
			COALESCE(e.team, '') AS team,
			SUM(EXTRACT(EPOCH FROM (s.ends_at - s.starts_at)) / 3600.0) AS scheduled,
			COALESCE(w.worked, 0) AS worked,
			COALESCE(w.breaks, 0) AS breaks,
			COUNT(*) FILTER (WHERE s.absent) AS absences,
			COUNT(*) FILTER (WHERE s.late) AS lates
		FROM shifts s
		LEFT JOIN employees e ON e.emp_id = s.emp_id
		LEFT JOIN (
			SELECT emp_id,
				SUM(EXTRACT(EPOCH FROM (ended_at - started_at)) / 3600.0)
					FILTER (WHERE category <> 'break') AS worked,
				SUM(EXTRACT(EPOCH FROM (ended_at - started_at)) / 3600.0)
					FILTER (WHERE category = 'break') AS breaks
			FROM timesheet_events
			WHERE started_at >= $1 AND started_at < $2 + INTERVAL '1 day'
				AND ended_at IS NOT NULL
			GROUP BY emp_id
		) w ON w.emp_id = s.emp_id
		WHERE s.starts_at >= $1 AND s.starts_at < $2 + INTERVAL '1 day'
		GROUP BY s.emp_id, e.name, e.team, w.worked, w.breaks
		ORDER BY agent
	`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get utilisation rows: %w", err)
	}
	defer rows.Close()

	var result []reporting.Row
	for rows.Next() {
		var empID, agent, team string
		var scheduled, worked, breaks float64
		var absences, lates int
		if err := rows.Scan(&empID, &agent, &team, &scheduled, &worked, &breaks, &absences, &lates); err != nil {
			return nil, fmt.Errorf("failed to scan utilisation row: %w", err)
		}
		row := reporting.Row{
			"emp_id":          empID,
			"agent":           agent,
			"team":            team,
			"hours_scheduled": scheduled,
			"hours_worked":    worked,
			"hours_breaks":    breaks,
			"absences":        absences,
			"lates":           lates,
		}
		if scheduled > 0 {
			row["utilisation"] = worked / scheduled * 100
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
