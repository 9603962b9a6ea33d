package payrollimport

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRecord is one normalised line of the gross pay extract. StartDate
// and EndDate are derived pay-period bounds, not present in the source file.
type PayrollRecord struct {
	EmpID       string    `json:"emp_id"`
	PayrollDate time.Time `json:"payroll_date"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Week        string    `json:"week"`
	Month       string    `json:"month"`

	GrossPayPreSacrifice  decimal.Decimal `json:"gross_pay_pre_sacrifice"`
	GrossPayPostSacrifice decimal.Decimal `json:"gross_pay_post_sacrifice"`
	GrossPayTaxable       decimal.Decimal `json:"gross_pay_taxable"`
	PayeTax               decimal.Decimal `json:"paye_tax"`
	PayeNI                decimal.Decimal `json:"paye_ni"`
	EmployerNI            decimal.Decimal `json:"employer_ni"`
	PayePension           decimal.Decimal `json:"paye_pension"`
	EmployerPension       decimal.Decimal `json:"employer_pension"`
	StudentLoan           decimal.Decimal `json:"student_loan"`
	SSP                   decimal.Decimal `json:"ssp"`
	SPP                   decimal.Decimal `json:"spp"`
	NetPay                decimal.Decimal `json:"net_pay"`
}

// Key is the per-file uniqueness key; later lines with the same key are
// dropped, first occurrence wins.
func (r PayrollRecord) Key() string {
	return r.EmpID + "|" + r.PayrollDate.Format("02/01/2006")
}

// HistoryEntry is one completed import run, kept so independently mounted
// history views can list past uploads.
type HistoryEntry struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	Imported   int       `json:"imported"`
	Updated    int       `json:"updated"`
	ErrorCount int       `json:"error_count"`
	CreatedAt  time.Time `json:"created_at"`
}
