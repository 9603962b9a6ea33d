package reporting

import (
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

// Classify maps a cell value to its colour bucket. Resolution order: find
// the target for the column; keyed targets select the sub-target matching
// the row's key field (no match, no classification); the high/low/direction
// cross product then decides. Ratio columns evaluate the weighted percentage
// of their numerator and denominator fields, not their own raw value.
func Classify(col reporting.ColumnDef, row reporting.Row, targets []reporting.Target) reporting.Classification {
	target, ok := findTarget(col.ID, targets)
	if !ok {
		return reporting.ClassificationNone
	}

	high, low := target.High, target.Low
	if target.Key != "" {
		sub, ok := findSubTarget(target, CellString(row[target.Key]))
		if !ok {
			return reporting.ClassificationNone
		}
		high, low = sub.High, sub.Low
	}
	if high == nil && low == nil {
		return reporting.ClassificationNone
	}

	value, ok := cellValueForTarget(col, row)
	if !ok {
		return reporting.ClassificationNone
	}

	direction := target.Direction
	if direction == "" {
		direction = col.TargetDirection
	}

	if direction == reporting.DirectionDesc {
		switch {
		case low != nil && value <= *low:
			return reporting.ClassificationGreen
		case high != nil && value >= *high:
			return reporting.ClassificationRed
		default:
			return reporting.ClassificationYellow
		}
	}

	switch {
	case high != nil && value >= *high:
		return reporting.ClassificationGreen
	case low != nil && value <= *low:
		return reporting.ClassificationRed
	default:
		return reporting.ClassificationYellow
	}
}

func cellValueForTarget(col reporting.ColumnDef, row reporting.Row) (float64, bool) {
	if col.IsRatio() {
		num, nok := CellFloat(row[col.NumeratorID])
		den, dok := CellFloat(row[col.DenominatorID])
		if !nok || !dok || den == 0 {
			return 0, false
		}
		return num / den * 100, true
	}
	return CellFloat(row[col.ID])
}

func findTarget(id string, targets []reporting.Target) (reporting.Target, bool) {
	for _, t := range targets {
		if t.ID == id {
			return t, true
		}
	}
	return reporting.Target{}, false
}

func findSubTarget(target reporting.Target, keyValue string) (reporting.SubTarget, bool) {
	for _, sub := range target.Sub {
		if sub.KeyValue == keyValue {
			return sub, true
		}
	}
	return reporting.SubTarget{}, false
}

// DefaultTargets seeds the target list from the schema's column defaults,
// as happens the first time a report is generated.
func DefaultTargets(schema reporting.Schema) []reporting.Target {
	var targets []reporting.Target
	for _, col := range schema.Columns {
		if !col.AllowTarget {
			continue
		}
		t := reporting.Target{ID: col.ID, Direction: col.TargetDirection}
		if col.TargetDefault != nil {
			t.High = col.TargetDefault.High
			t.Low = col.TargetDefault.Low
		}
		targets = append(targets, t)
	}
	return targets
}

// ReconcileTargets merges target state when fresh report data arrives.
// Matching is by column id against the schema: the persisted server copy
// wins, then any in-flight edited copy, then the schema default. Targets for
// columns the schema no longer carries are dropped.
func ReconcileTargets(schema reporting.Schema, previous, server []reporting.Target) []reporting.Target {
	var out []reporting.Target
	for _, def := range DefaultTargets(schema) {
		if t, ok := findTarget(def.ID, server); ok {
			out = append(out, withDirection(t, def.Direction))
			continue
		}
		if t, ok := findTarget(def.ID, previous); ok {
			out = append(out, withDirection(t, def.Direction))
			continue
		}
		out = append(out, def)
	}
	return out
}

func withDirection(t reporting.Target, fallback reporting.Direction) reporting.Target {
	if t.Direction == "" {
		t.Direction = fallback
	}
	return t
}
