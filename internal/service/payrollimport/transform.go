package payrollimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/payrollimport"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/validator"
)

// sourceFieldCount is the expected column count of the gross pay extract.
// Older extracts append twelve legacy columns which are discarded.
const sourceFieldCount = 16

const payrollDateLayout = "02/01/2006"

// readLines splits the upload into non-blank CSV records. Ragged rows are
// tolerated here; shape problems surface in structure validation and the
// per-line transform.
func readLines(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	lines := make([][]string, 0, len(records))
	for _, record := range records {
		if isBlank(record) {
			continue
		}
		lines = append(lines, record)
	}
	if len(lines) == 0 {
		return nil, payrollimport.ErrEmptyFile
	}
	return lines, nil
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// validateStructure checks the first data line only. Spot-checking one line
// keeps large uploads cheap; a malformed later line degrades per-record
// instead of rejecting the file, which is the accepted-file contract.
func validateStructure(first []string) error {
	if normalizeEmpID(fieldAt(first, 0)) == "" {
		return &payrollimport.StructureError{
			Field:   "employee id",
			Message: "first column must contain a numeric employee id",
		}
	}
	if _, ok := validator.IsValidPayrollDate(fieldAt(first, 1)); !ok {
		return &payrollimport.StructureError{
			Field:   "payroll date",
			Message: "second column must be a dd/mm/yyyy date",
		}
	}
	if !validator.IsDecimal(fieldAt(first, 6)) {
		return &payrollimport.StructureError{
			Field:   "gross pay",
			Message: "seventh column must be numeric",
		}
	}
	return nil
}

// normalizeEmpID strips an employee reference to its digits, discarding any
// hyphenated suffix ("12345-2" and "E12345" both yield "12345").
func normalizeEmpID(raw string) string {
	head, _, _ := strings.Cut(strings.TrimSpace(raw), "-")
	var b strings.Builder
	for _, r := range head {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// payPeriod derives the pay-period window for a payroll date: the 29th of
// two months before through the 28th of one month before. time.Date
// normalisation rolls a nonexistent 29th (short Februaries) forward to the
// 1st of the following month.
func payPeriod(payrollDate time.Time) (start, end time.Time) {
	start = time.Date(payrollDate.Year(), payrollDate.Month()-2, 29, 0, 0, 0, 0, time.UTC)
	end = time.Date(payrollDate.Year(), payrollDate.Month()-1, 28, 0, 0, 0, 0, time.UTC)
	return start, end
}

// transform maps every line to a normalised record. Lines repeating an
// (empId, payrollDate) key are dropped silently, first occurrence wins;
// soft per-line faults (bad dates or amounts past line one) are recorded as
// batch errors without rejecting the file.
func transform(lines [][]string) payrollimport.Batch {
	batch := payrollimport.Batch{Records: make([]payrollimport.PayrollRecord, 0, len(lines))}
	seen := make(map[string]struct{}, len(lines))

	for i, line := range lines {
		if len(line) > sourceFieldCount {
			line = line[:len(line)-12]
		}

		record, errs := mapLine(line, i+1)

		key := record.EmpID + "|" + fieldAt(line, 1)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		batch.Records = append(batch.Records, record)
		batch.Errors = append(batch.Errors, errs...)
	}
	return batch
}

func mapLine(line []string, lineNo int) (payrollimport.PayrollRecord, []string) {
	var errs []string

	record := payrollimport.PayrollRecord{
		EmpID: normalizeEmpID(fieldAt(line, 0)),
		Week:  strings.TrimSpace(fieldAt(line, 2)),
		Month: strings.TrimSpace(fieldAt(line, 3)),
	}

	if date, ok := validator.IsValidPayrollDate(strings.TrimSpace(fieldAt(line, 1))); ok {
		record.PayrollDate = date
		record.StartDate, record.EndDate = payPeriod(date)
	} else {
		errs = append(errs, fmt.Sprintf("line %d: invalid payroll date %q", lineNo, fieldAt(line, 1)))
	}

	amounts := []struct {
		index int
		field string
		dest  *decimal.Decimal
	}{
		{4, "gross pay pre sacrifice", &record.GrossPayPreSacrifice},
		{5, "gross pay post sacrifice", &record.GrossPayPostSacrifice},
		{6, "gross pay taxable", &record.GrossPayTaxable},
		{7, "paye tax", &record.PayeTax},
		{8, "paye ni", &record.PayeNI},
		{9, "employer ni", &record.EmployerNI},
		{10, "paye pension", &record.PayePension},
		{11, "employer pension", &record.EmployerPension},
		{12, "student loan", &record.StudentLoan},
		{13, "ssp", &record.SSP},
		{14, "spp", &record.SPP},
		{15, "net pay", &record.NetPay},
	}
	for _, a := range amounts {
		raw := strings.TrimSpace(fieldAt(line, a.index))
		if raw == "" {
			continue
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			errs = append(errs, fmt.Sprintf("line %d: invalid %s %q", lineNo, a.field, raw))
			continue
		}
		*a.dest = value
	}

	return record, errs
}

func fieldAt(line []string, index int) string {
	if index < len(line) {
		return line[index]
	}
	return ""
}
