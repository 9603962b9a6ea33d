package reporting

import (
	"math"
	"sort"
	"strings"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

// SortRows returns a sorted copy of rows ordered by the named column. The
// comparator dispatches on the column's data type; ties keep their prior
// relative order and the input is never mutated. Control columns and unknown
// keys leave the order untouched.
func SortRows(rows []reporting.Row, schema reporting.Schema, key string, dir reporting.Direction) []reporting.Row {
	out := make([]reporting.Row, len(rows))
	copy(out, rows)

	col, ok := schema.Column(key)
	if !ok || col.DataType == reporting.DataTypeControl {
		return out
	}

	less := lessFunc(col)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == reporting.DirectionDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(col reporting.ColumnDef) func(a, b reporting.Row) bool {
	switch col.DataType {
	case reporting.DataTypeInteger, reporting.DataTypeFloat:
		return func(a, b reporting.Row) bool {
			return numericValue(a[col.ID]) < numericValue(b[col.ID])
		}
	case reporting.DataTypeDate:
		return func(a, b reporting.Row) bool {
			at, aok := CellTime(a[col.ID])
			bt, bok := CellTime(b[col.ID])
			if !aok || !bok {
				// Unparseable dates order after real ones.
				return aok && !bok
			}
			return at.Before(bt)
		}
	default:
		return func(a, b reporting.Row) bool {
			return strings.ToLower(CellString(a[col.ID])) < strings.ToLower(CellString(b[col.ID]))
		}
	}
}

// numericValue parses a cell as float for comparison. Non-numeric values
// compare greater than any number so the comparator stays a total order.
func numericValue(v interface{}) float64 {
	f, ok := CellFloat(v)
	if !ok || math.IsNaN(f) {
		return math.Inf(1)
	}
	return f
}
