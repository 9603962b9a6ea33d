package reports

import (
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

func floatPtr(f float64) *float64 { return &f }

// UtilisationSchema describes the agent utilisation report. The utilisation
// column is a weighted ratio over worked and scheduled hours, so totals and
// targets read the underlying sums rather than averaging the row
// percentages. It has no registered export layout and exports through the
// default grid with its conditional formatting.
func UtilisationSchema() reporting.Schema {
	return reporting.Schema{
		ID:    "utilisation",
		Label: "Utilisation",
		Columns: []reporting.ColumnDef{
			{ID: "emp_id", Label: "Employee ID", DataType: reporting.DataTypeString},
			{ID: "agent", Label: "Agent", DataType: reporting.DataTypeString, Visible: true},
			{ID: "team", Label: "Team", DataType: reporting.DataTypeString, Visible: true},
			{ID: "hours_scheduled", Label: "Scheduled", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "number:2"},
			{ID: "hours_worked", Label: "Worked", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "number:2"},
			{ID: "hours_breaks", Label: "Breaks", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "number:2"},
			{
				ID: "utilisation", Label: "Utilisation", DataType: reporting.DataTypeFloat, Visible: true,
				FormatterID:   "percent:2",
				Suffix:        "%",
				NumeratorID:   "hours_worked",
				DenominatorID: "hours_scheduled",
				AllowTarget:   true,
				TargetDefault: &reporting.Bounds{
					High: floatPtr(85),
					Low:  floatPtr(70),
				},
				TargetDirection: reporting.DirectionAsc,
			},
			{
				ID: "absences", Label: "Absences", DataType: reporting.DataTypeInteger, Visible: true,
				FormatterID: "number:0",
				AllowTarget: true,
				TargetDefault: &reporting.Bounds{
					High: floatPtr(3),
					Low:  floatPtr(1),
				},
				TargetDirection: reporting.DirectionDesc,
			},
			{
				ID: "lates", Label: "Lates", DataType: reporting.DataTypeInteger, Visible: true,
				FormatterID: "number:0",
				AllowTarget: true,
				TargetDefault: &reporting.Bounds{
					High: floatPtr(3),
					Low:  floatPtr(1),
				},
				TargetDirection: reporting.DirectionDesc,
			},
			{ID: "actions", Label: "", DataType: reporting.DataTypeControl, Visible: true},
		},
	}
}
