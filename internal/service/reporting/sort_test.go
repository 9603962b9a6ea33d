package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

func sortSchema() reporting.Schema {
	return reporting.Schema{
		ID: "test",
		Columns: []reporting.ColumnDef{
			{ID: "name", DataType: reporting.DataTypeString, Visible: true},
			{ID: "score", DataType: reporting.DataTypeFloat, Visible: true},
			{ID: "joined", DataType: reporting.DataTypeDate, Visible: true},
			{ID: "actions", DataType: reporting.DataTypeControl, Visible: true},
		},
	}
}

func TestSortRowsNumericAscending(t *testing.T) {
	rows := []reporting.Row{
		{"name": "b", "score": 3.5},
		{"name": "a", "score": 1.0},
		{"name": "c", "score": 2.25},
	}

	out := SortRows(rows, sortSchema(), "score", reporting.DirectionAsc)

	assert.Equal(t, "a", out[0]["name"])
	assert.Equal(t, "c", out[1]["name"])
	assert.Equal(t, "b", out[2]["name"])
	// Input order untouched.
	assert.Equal(t, "b", rows[0]["name"])
}

func TestSortRowsNumericDescending(t *testing.T) {
	rows := []reporting.Row{
		{"name": "a", "score": 1.0},
		{"name": "b", "score": 3.5},
	}

	out := SortRows(rows, sortSchema(), "score", reporting.DirectionDesc)

	assert.Equal(t, "b", out[0]["name"])
	assert.Equal(t, "a", out[1]["name"])
}

func TestSortRowsNonNumericOrdersLast(t *testing.T) {
	rows := []reporting.Row{
		{"name": "a", "score": "n/a"},
		{"name": "b", "score": 2.0},
		{"name": "c"},
		{"name": "d", "score": 1.0},
	}

	out := SortRows(rows, sortSchema(), "score", reporting.DirectionAsc)

	assert.Equal(t, "d", out[0]["name"])
	assert.Equal(t, "b", out[1]["name"])
	// Both unparseable rows sort after the numbers, keeping their order.
	assert.Equal(t, "a", out[2]["name"])
	assert.Equal(t, "c", out[3]["name"])
}

func TestSortRowsNumericStringsParse(t *testing.T) {
	rows := []reporting.Row{
		{"name": "a", "score": "£1,200.50"},
		{"name": "b", "score": "900"},
	}

	out := SortRows(rows, sortSchema(), "score", reporting.DirectionAsc)

	assert.Equal(t, "b", out[0]["name"])
}

func TestSortRowsString(t *testing.T) {
	rows := []reporting.Row{
		{"name": "Charlie"},
		{"name": "alice"},
		{"name": "Bob"},
	}

	out := SortRows(rows, sortSchema(), "name", reporting.DirectionAsc)

	assert.Equal(t, "alice", out[0]["name"])
	assert.Equal(t, "Bob", out[1]["name"])
	assert.Equal(t, "Charlie", out[2]["name"])
}

func TestSortRowsDate(t *testing.T) {
	rows := []reporting.Row{
		{"name": "a", "joined": "15/04/2025"},
		{"name": "b", "joined": "not a date"},
		{"name": "c", "joined": "2024-12-01"},
	}

	out := SortRows(rows, sortSchema(), "joined", reporting.DirectionAsc)

	assert.Equal(t, "c", out[0]["name"])
	assert.Equal(t, "a", out[1]["name"])
	assert.Equal(t, "b", out[2]["name"])
}

func TestSortRowsStable(t *testing.T) {
	rows := []reporting.Row{
		{"name": "first", "score": 1.0},
		{"name": "second", "score": 1.0},
		{"name": "third", "score": 1.0},
	}

	out := SortRows(rows, sortSchema(), "score", reporting.DirectionAsc)

	assert.Equal(t, "first", out[0]["name"])
	assert.Equal(t, "second", out[1]["name"])
	assert.Equal(t, "third", out[2]["name"])
}

func TestSortRowsControlColumnLeavesOrder(t *testing.T) {
	rows := []reporting.Row{
		{"name": "b"},
		{"name": "a"},
	}

	out := SortRows(rows, sortSchema(), "actions", reporting.DirectionAsc)
	assert.Equal(t, "b", out[0]["name"])

	out = SortRows(rows, sortSchema(), "unknown", reporting.DirectionAsc)
	assert.Equal(t, "b", out[0]["name"])
}
