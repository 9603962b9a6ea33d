package reports

import (
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/service/export"
	reportingsvc "github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/service/reporting"
)

// PayrollSchema describes the payroll summary report: one row per employee
// with their pay, deductions and the minimum-wage floor for the hours they
// worked inside the window.
func PayrollSchema() reporting.Schema {
	return reporting.Schema{
		ID:    "payroll",
		Label: "Payroll Summary",
		Columns: []reporting.ColumnDef{
			{ID: "emp_id", Label: "Employee ID", DataType: reporting.DataTypeString, Visible: true},
			{ID: "name", Label: "Name", DataType: reporting.DataTypeString, Visible: true},
			{ID: "gross_pay", Label: "Gross Pay", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "taxable_pay", Label: "Taxable Pay", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "paye_tax", Label: "PAYE Tax", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "paye_ni", Label: "Employee NI", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "employer_ni", Label: "Employer NI", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "pension", Label: "Pension", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "student_loan", Label: "Student Loan", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "statutory", Label: "Statutory Pay", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "net_pay", Label: "Net Pay", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "base_pay", Label: "Base Pay", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "base_rate", Label: "Base Rate", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{
				ID: "period", Label: "Period", DataType: reporting.DataTypeString,
				FormatterID: "daterange",
				Parameters: []reporting.ParamBinding{
					{Name: "startDate", Kind: reporting.ParamStartDate},
					{Name: "endDate", Kind: reporting.ParamEndDate},
				},
			},
		},
	}
}

// payrollSheets is the styled export layout for the payroll summary: a
// banded two-row header on the main sheet plus a statutory-pay breakout
// sheet filtered to employees who received SSP or SPP.
func payrollSheets() []export.SheetConfig {
	return []export.SheetConfig{
		{
			Name: "Payroll Summary",
			Matrix: [][]export.SheetCell{
				{
					{Label: "EMPLOYEE", ColSpan: 2, Color: "navy"},
					{Label: "PAY", ColSpan: 4, Color: "navy"},
					{Label: "DEDUCTIONS", ColSpan: 5, Color: "grey"},
					{Label: "MINIMUM WAGE", ColSpan: 2, Color: "green"},
				},
				{
					{Label: "ID", Field: "emp_id"},
					{Label: "Name", Field: "name"},
					{Label: "Gross", Field: "gross_pay"},
					{Label: "Taxable", Field: "taxable_pay"},
					{Label: "Statutory", Field: "statutory"},
					{Label: "Net", Field: "net_pay"},
					{Label: "PAYE Tax", Field: "paye_tax"},
					{Label: "Employee NI", Field: "paye_ni"},
					{Label: "Employer NI", Field: "employer_ni"},
					{Label: "Pension", Field: "pension"},
					{Label: "Student Loan", Field: "student_loan"},
					{Label: "Base Pay", Field: "base_pay"},
					{Label: "Base Rate", Field: "base_rate"},
				},
			},
			Widths:    []float64{12, 24, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12},
			RowHeight: 18,
			SortKey:   "name",
			SortDir:   reporting.DirectionAsc,
		},
		{
			Name: "Statutory Pay",
			Matrix: [][]export.SheetCell{
				{
					{Label: "ID", Field: "emp_id", Color: "navy"},
					{Label: "Name", Field: "name", Color: "navy"},
					{Label: "Period", Field: "period", Color: "navy"},
					{Label: "Statutory", Field: "statutory", Color: "navy"},
					{Label: "Net", Field: "net_pay", Color: "navy"},
				},
			},
			Widths:      []float64{12, 24, 26, 12, 12},
			PredicateID: "has-statutory",
			RowColorID:  "statutory-level",
			SortKey:     "statutory",
			SortDir:     reporting.DirectionDesc,
		},
	}
}

func hasStatutory(row reporting.Row) bool {
	f, ok := reportingsvc.CellFloat(row["statutory"])
	return ok && f > 0
}

// statutoryLevel highlights unusually large statutory totals.
func statutoryLevel(row reporting.Row) string {
	f, ok := reportingsvc.CellFloat(row["statutory"])
	if ok && f >= 500 {
		return "orange"
	}
	return ""
}
