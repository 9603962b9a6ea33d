package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

func filterRows() []reporting.Row {
	return []reporting.Row{
		{"emp_id": "100", "team": "Sales", "statutory": 120.0},
		{"emp_id": "101", "team": "Support", "statutory": 0.0},
		{"emp_id": "102", "team": "Sales", "statutory": 0.0},
		{"emp_id": "103", "team": "Ops", "statutory": 45.5},
	}
}

func teamFilter(kind reporting.FilterKind, checked ...string) reporting.FilterDef {
	isChecked := func(team string) bool {
		for _, c := range checked {
			if c == team {
				return true
			}
		}
		return false
	}
	def := reporting.FilterDef{
		ID:           "team",
		Name:         "Team",
		ExpressionID: "equals",
		Kind:         kind,
	}
	for _, team := range []string{"Sales", "Support", "Ops"} {
		def.Options = append(def.Options, reporting.FilterOption{
			Label:   team,
			Value:   "team=" + team,
			Checked: isChecked(team),
			Mode:    reporting.FilterModeAnd,
		})
	}
	return def
}

func TestApplyFiltersEmptyListCopiesInput(t *testing.T) {
	registry := NewRegistry()
	rows := filterRows()

	out := registry.ApplyFilters(rows, nil)

	assert.Equal(t, rows, out)
	// The result must be a copy, not an alias of the input.
	out[0] = reporting.Row{"emp_id": "changed"}
	assert.Equal(t, "100", rows[0]["emp_id"])
}

func TestApplyFiltersInclude(t *testing.T) {
	registry := NewRegistry()

	out := registry.ApplyFilters(filterRows(), []reporting.FilterDef{
		teamFilter(reporting.FilterInclude, "Sales"),
	})

	assert.Len(t, out, 2)
	assert.Equal(t, "100", out[0]["emp_id"])
	assert.Equal(t, "102", out[1]["emp_id"])
}

func TestApplyFiltersExclude(t *testing.T) {
	registry := NewRegistry()

	out := registry.ApplyFilters(filterRows(), []reporting.FilterDef{
		teamFilter(reporting.FilterExclude, "Sales"),
	})

	assert.Len(t, out, 2)
	assert.Equal(t, "101", out[0]["emp_id"])
	assert.Equal(t, "103", out[1]["emp_id"])
}

func TestApplyFiltersNothingCheckedPassesAll(t *testing.T) {
	registry := NewRegistry()

	out := registry.ApplyFilters(filterRows(), []reporting.FilterDef{
		teamFilter(reporting.FilterInclude),
	})

	assert.Len(t, out, 4)
}

func TestApplyFiltersCombineAcrossDefinitions(t *testing.T) {
	registry := NewRegistry()

	out := registry.ApplyFilters(filterRows(), []reporting.FilterDef{
		teamFilter(reporting.FilterInclude, "Sales", "Ops"),
		{
			ID:           "statutory",
			ExpressionID: "nonzero",
			Options: []reporting.FilterOption{
				{Label: "Has statutory pay", Value: "statutory", Checked: true},
			},
		},
	})

	assert.Len(t, out, 2)
	assert.Equal(t, "100", out[0]["emp_id"])
	assert.Equal(t, "103", out[1]["emp_id"])
}

func TestApplyFiltersUnregisteredExpressionIsNoOp(t *testing.T) {
	registry := NewRegistry()

	def := teamFilter(reporting.FilterInclude, "Sales")
	def.ExpressionID = "does-not-exist"

	out := registry.ApplyFilters(filterRows(), []reporting.FilterDef{def})
	assert.Len(t, out, 4)
}

func TestApplyFiltersIdempotent(t *testing.T) {
	registry := NewRegistry()
	filters := []reporting.FilterDef{teamFilter(reporting.FilterInclude, "Sales")}

	once := registry.ApplyFilters(filterRows(), filters)
	twice := registry.ApplyFilters(once, filters)

	assert.Equal(t, once, twice)
}

func TestAdvancedFilterNothingCheckedPassesNothing(t *testing.T) {
	registry := NewRegistry()

	out := registry.ApplyFilters(filterRows(), []reporting.FilterDef{
		teamFilter(reporting.FilterAdvanced),
	})

	assert.Empty(t, out)
}

func TestAdvancedFilterSoloShortCircuits(t *testing.T) {
	registry := NewRegistry()

	def := teamFilter(reporting.FilterAdvanced, "Sales")
	for i := range def.Options {
		if def.Options[i].Checked {
			def.Options[i].Mode = reporting.FilterModeSolo
		}
	}

	out := registry.ApplyFilters(filterRows(), []reporting.FilterDef{def})
	assert.Len(t, out, 2)
}

func TestAdvancedFilterAndRejectsUncheckedMatches(t *testing.T) {
	registry := NewRegistry()

	// Sales is checked in "and" mode; each row has exactly one team so a
	// Sales row never matches an unchecked option and passes.
	def := teamFilter(reporting.FilterAdvanced, "Sales")
	out := registry.ApplyFilters(filterRows(), []reporting.FilterDef{def})
	assert.Len(t, out, 2)

	// A row matching an unchecked option fails even when it also matches a
	// checked one. Duplicate the Sales option unchecked to force that.
	def.Options = append(def.Options, reporting.FilterOption{
		Label: "Sales again", Value: "team=Sales", Checked: false,
	})
	out = registry.ApplyFilters(filterRows(), []reporting.FilterDef{def})
	assert.Empty(t, out)
}
