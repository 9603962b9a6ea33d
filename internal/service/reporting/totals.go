package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

// ComputeTotals builds the footer for the rows currently on screen, that is
// the filtered and sorted set, never the unfiltered source. The first
// visible column carries the literal "Total" label. Ratio percentage
// columns total as sum(numerator)/sum(denominator); every other numeric
// column is a plain sum rendered through its own formatter.
func (r *Registry) ComputeTotals(schema reporting.Schema, visibleRows []reporting.Row, start, end *time.Time) []reporting.ColumnTotal {
	var totals []reporting.ColumnTotal
	firstVisible := true

	for _, col := range schema.Columns {
		if !col.Visible {
			continue
		}

		value := ""
		switch {
		case col.DataType == reporting.DataTypeControl:
			// Control columns have no footer.
		case col.DataType == reporting.DataTypeString, col.DataType == reporting.DataTypeDate:
			if firstVisible {
				value = "Total"
			}
		case col.Suffix == "%" && col.IsRatio():
			value = r.weightedTotal(col, visibleRows, start, end)
		default:
			value = r.sumTotal(col, visibleRows, start, end)
		}

		totals = append(totals, reporting.ColumnTotal{ColumnID: col.ID, Value: value})
		firstVisible = false
	}
	return totals
}

func (r *Registry) weightedTotal(col reporting.ColumnDef, rows []reporting.Row, start, end *time.Time) string {
	num := decimal.Zero
	den := decimal.Zero
	for _, row := range rows {
		if f, ok := CellFloat(row[col.NumeratorID]); ok {
			num = num.Add(decimal.NewFromFloat(f))
		}
		if f, ok := CellFloat(row[col.DenominatorID]); ok {
			den = den.Add(decimal.NewFromFloat(f))
		}
	}
	if den.IsZero() {
		return ""
	}
	ratio, _ := num.Div(den).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return r.formatTotal(col, ratio, start, end)
}

func (r *Registry) sumTotal(col reporting.ColumnDef, rows []reporting.Row, start, end *time.Time) string {
	sum := decimal.Zero
	for _, row := range rows {
		if f, ok := CellFloat(row[col.ID]); ok {
			sum = sum.Add(decimal.NewFromFloat(f))
		}
	}
	total, _ := sum.Float64()
	return r.formatTotal(col, total, start, end)
}

// formatTotal renders an aggregate through the column's formatter so the
// footer matches the body's display convention, including prefix/suffix.
func (r *Registry) formatTotal(col reporting.ColumnDef, value float64, start, end *time.Time) string {
	// Requires bindings address row fields that have no aggregate
	// equivalent; totals always format the computed value directly.
	synthetic := reporting.ColumnDef{
		ID:          col.ID,
		DataType:    col.DataType,
		FormatterID: col.FormatterID,
		Parameters:  col.Parameters,
		Prefix:      col.Prefix,
		Suffix:      col.Suffix,
	}
	row := reporting.Row{col.ID: value}
	return r.FormatCell(synthetic, row, start, end)
}
