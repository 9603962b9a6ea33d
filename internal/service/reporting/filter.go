package reporting

import (
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

// ApplyFilters derives the visible row set. Rows must satisfy every filter
// definition; how checked options combine within one definition depends on
// its kind. The input slices are never mutated and row order is preserved.
func (r *Registry) ApplyFilters(rows []reporting.Row, filters []reporting.FilterDef) []reporting.Row {
	if len(filters) == 0 {
		out := make([]reporting.Row, len(rows))
		copy(out, rows)
		return out
	}

	out := make([]reporting.Row, 0, len(rows))
	for _, row := range rows {
		if r.rowPasses(row, filters) {
			out = append(out, row)
		}
	}
	return out
}

func (r *Registry) rowPasses(row reporting.Row, filters []reporting.FilterDef) bool {
	for _, def := range filters {
		if !r.filterPasses(row, def) {
			return false
		}
	}
	return true
}

func (r *Registry) filterPasses(row reporting.Row, def reporting.FilterDef) bool {
	expr, ok := r.Expression(def.ExpressionID)
	if !ok {
		// An unregistered expression cannot judge rows; treat the filter
		// as a no-op rather than emptying the report.
		return true
	}

	if def.Kind == reporting.FilterAdvanced {
		return advancedPasses(row, def, expr)
	}

	checked := checkedOptions(def)
	// A filter shipped before its options are computed passes everything.
	if len(checked) == 0 {
		return true
	}

	matched := false
	for _, opt := range checked {
		if expr(row, opt.Value) {
			matched = true
			break
		}
	}

	if def.Kind == reporting.FilterExclude {
		return !matched
	}
	return matched
}

// advancedPasses applies per-option solo/and modes. Checked solo options
// short-circuit to inclusion; otherwise the row must match a checked "and"
// option and no unchecked option. With nothing checked, nothing passes.
func advancedPasses(row reporting.Row, def reporting.FilterDef, expr Expression) bool {
	checked := checkedOptions(def)
	if len(checked) == 0 {
		return false
	}

	for _, opt := range checked {
		if opt.Mode == reporting.FilterModeSolo && expr(row, opt.Value) {
			return true
		}
	}

	matchedAnd := false
	for _, opt := range checked {
		if opt.Mode == reporting.FilterModeAnd && expr(row, opt.Value) {
			matchedAnd = true
			break
		}
	}
	if !matchedAnd {
		return false
	}

	for _, opt := range def.Options {
		if !opt.Checked && expr(row, opt.Value) {
			return false
		}
	}
	return true
}

func checkedOptions(def reporting.FilterDef) []reporting.FilterOption {
	var checked []reporting.FilterOption
	for _, opt := range def.Options {
		if opt.Checked {
			checked = append(checked, opt)
		}
	}
	return checked
}
