package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
	reportingsvc "github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/service/reporting"
)

func builderSchema() reporting.Schema {
	return reporting.Schema{
		ID:    "calls",
		Label: "Call Outcomes",
		Columns: []reporting.ColumnDef{
			{ID: "agent", Label: "Agent", DataType: reporting.DataTypeString, Visible: true},
			{
				ID: "score", Label: "Score", DataType: reporting.DataTypeFloat, Visible: true,
				FormatterID:     "number:0",
				AllowTarget:     true,
				TargetDirection: reporting.DirectionAsc,
			},
			{ID: "pay", Label: "Pay", DataType: reporting.DataTypeFloat, Visible: true, FormatterID: "currency", Prefix: "£"},
			{ID: "hidden", DataType: reporting.DataTypeFloat},
			{ID: "actions", Label: "", DataType: reporting.DataTypeControl, Visible: true},
		},
	}
}

func builderRows() []reporting.Row {
	return []reporting.Row{
		{"agent": "alice", "score": 90.0, "pay": 1200.50},
		{"agent": "bob", "score": 40.0, "pay": 900.0},
	}
}

func fp(f float64) *float64 { return &f }

func TestBuildWorkbookDefaultGrid(t *testing.T) {
	b := NewBuilder(reportingsvc.NewRegistry(), Theme{})
	targets := []reporting.Target{{ID: "score", High: fp(80), Low: fp(60), Direction: reporting.DirectionAsc}}

	content, err := b.BuildWorkbook(builderSchema(), builderRows(), targets, nil, nil)
	require.NoError(t, err)

	f := openWorkbook(t, content)
	require.Equal(t, "Call Outcomes", f.GetSheetName(0))

	// Visible columns only, the trailing control column removed.
	assert.Equal(t, "Agent", rawCell(t, f, "Call Outcomes", "A1"))
	assert.Equal(t, "Score", rawCell(t, f, "Call Outcomes", "B1"))
	assert.Equal(t, "Pay", rawCell(t, f, "Call Outcomes", "C1"))
	assert.Equal(t, "", rawCell(t, f, "Call Outcomes", "D1"))

	assert.Equal(t, "alice", rawCell(t, f, "Call Outcomes", "A2"))
	assert.Equal(t, "90", rawCell(t, f, "Call Outcomes", "B2"))
	assert.Equal(t, "1200.5", rawCell(t, f, "Call Outcomes", "C2"))

	// Opposite classifications produce distinct cell styles.
	greenStyle, err := f.GetCellStyle("Call Outcomes", "B2")
	require.NoError(t, err)
	redStyle, err := f.GetCellStyle("Call Outcomes", "B3")
	require.NoError(t, err)
	assert.NotEqual(t, greenStyle, redStyle)
}

func TestBuildSheetsHeaderMatrixMerges(t *testing.T) {
	b := NewBuilder(reportingsvc.NewRegistry(), Theme{})
	b.RegisterLayout("calls", []SheetConfig{{
		Name: "Summary",
		Matrix: [][]SheetCell{
			{
				{Label: "AGENT", Field: "agent", RowSpan: 2},
				{Label: "RESULTS", ColSpan: 2, Color: "navy"},
			},
			{
				{Label: "Score", Field: "score"},
				{Label: "Pay", Field: "pay"},
			},
		},
		Widths: []float64{20, 10, 10},
	}})

	content, err := b.BuildWorkbook(builderSchema(), builderRows(), nil, nil, nil)
	require.NoError(t, err)

	f := openWorkbook(t, content)
	require.Equal(t, "Summary", f.GetSheetName(0))

	merges, err := f.GetMergeCells("Summary")
	require.NoError(t, err)
	require.Len(t, merges, 2)

	ranges := []string{merges[0].GetStartAxis() + ":" + merges[0].GetEndAxis(), merges[1].GetStartAxis() + ":" + merges[1].GetEndAxis()}
	assert.Contains(t, ranges, "A1:A2")
	assert.Contains(t, ranges, "B1:C1")

	// The second matrix row slots in beside the row-spanned first cell.
	assert.Equal(t, "AGENT", rawCell(t, f, "Summary", "A1"))
	assert.Equal(t, "RESULTS", rawCell(t, f, "Summary", "B1"))
	assert.Equal(t, "Score", rawCell(t, f, "Summary", "B2"))
	assert.Equal(t, "Pay", rawCell(t, f, "Summary", "C2"))

	// Data rows start after the matrix; the row-spanned agent cell lines
	// its field up with column A beneath it.
	assert.Equal(t, "alice", rawCell(t, f, "Summary", "A3"))
	assert.Equal(t, "90", rawCell(t, f, "Summary", "B3"))
	assert.Equal(t, "£1200.50", rawCell(t, f, "Summary", "C3"))
}

func TestBuildSheetsPredicateSortAndFixed(t *testing.T) {
	b := NewBuilder(reportingsvc.NewRegistry(), Theme{})
	b.RegisterPredicate("high-scores", func(row reporting.Row) bool {
		f, ok := reportingsvc.CellFloat(row["score"])
		return ok && f >= 50
	})
	b.RegisterRowColor("flag-alice", func(row reporting.Row) string {
		if row["agent"] == "alice" {
			return "orange"
		}
		return ""
	})
	b.RegisterLayout("calls", []SheetConfig{{
		Name: "Top",
		Matrix: [][]SheetCell{
			{
				{Label: "Agent", Field: "agent"},
				{Label: "Score", Field: "score"},
				{Label: "Source", Field: "source"},
			},
		},
		PredicateID: "high-scores",
		RowColorID:  "flag-alice",
		SortKey:     "score",
		SortDir:     reporting.DirectionDesc,
		Fixed:       map[string]string{"source": "pulse"},
	}})

	rows := append(builderRows(), reporting.Row{"agent": "carol", "score": 75.0, "pay": 1.0})
	content, err := b.BuildWorkbook(builderSchema(), rows, nil, nil, nil)
	require.NoError(t, err)

	f := openWorkbook(t, content)

	// bob (40) is filtered out; alice (90) sorts above carol (75).
	assert.Equal(t, "alice", rawCell(t, f, "Top", "A2"))
	assert.Equal(t, "carol", rawCell(t, f, "Top", "A3"))
	assert.Equal(t, "", rawCell(t, f, "Top", "A4"))

	// The fixed field fills every data row.
	assert.Equal(t, "pulse", rawCell(t, f, "Top", "C2"))
	assert.Equal(t, "pulse", rawCell(t, f, "Top", "C3"))

	// Only alice's row is coloured.
	aliceStyle, err := f.GetCellStyle("Top", "A2")
	require.NoError(t, err)
	carolStyle, err := f.GetCellStyle("Top", "A3")
	require.NoError(t, err)
	assert.NotEqual(t, aliceStyle, carolStyle)
	assert.Equal(t, 0, carolStyle)
}

func TestBuildSheetsSubDataExpansion(t *testing.T) {
	b := NewBuilder(reportingsvc.NewRegistry(), Theme{})
	b.RegisterLayout("calls", []SheetConfig{{
		Name: "Breakdown",
		Matrix: [][]SheetCell{
			{
				{Label: "Agent", Field: "agent"},
				{Label: "Day", Field: "day"},
				{Label: "Calls", Field: "daily_calls"},
			},
		},
		SubDataField: "days",
	}})

	rows := []reporting.Row{
		{
			"agent": "alice",
			"days": []interface{}{
				map[string]interface{}{"day": "Mon", "daily_calls": 12.0},
				map[string]interface{}{"day": "Tue", "daily_calls": 8.0},
			},
		},
		// A row without the sub-array contributes nothing.
		{"agent": "bob"},
	}

	content, err := b.BuildWorkbook(builderSchema(), rows, nil, nil, nil)
	require.NoError(t, err)

	f := openWorkbook(t, content)

	assert.Equal(t, "alice", rawCell(t, f, "Breakdown", "A2"))
	assert.Equal(t, "Mon", rawCell(t, f, "Breakdown", "B2"))
	assert.Equal(t, "12", rawCell(t, f, "Breakdown", "C2"))
	assert.Equal(t, "alice", rawCell(t, f, "Breakdown", "A3"))
	assert.Equal(t, "Tue", rawCell(t, f, "Breakdown", "B3"))
	assert.Equal(t, "", rawCell(t, f, "Breakdown", "A4"))
}

func TestBuildSheetsMultipleSheets(t *testing.T) {
	b := NewBuilder(reportingsvc.NewRegistry(), Theme{})
	b.RegisterLayout("calls", []SheetConfig{
		{Name: "First", Matrix: [][]SheetCell{{{Label: "Agent", Field: "agent"}}}},
		{Name: "Second", Matrix: [][]SheetCell{{{Label: "Pay", Field: "pay"}}}},
	})

	content, err := b.BuildWorkbook(builderSchema(), builderRows(), nil, nil, nil)
	require.NoError(t, err)

	f := openWorkbook(t, content)
	assert.Equal(t, []string{"First", "Second"}, f.GetSheetList())
	assert.Equal(t, "alice", rawCell(t, f, "First", "A2"))
	assert.Equal(t, "£900.00", rawCell(t, f, "Second", "A3"))
}

func TestBuildSheetsNoSheetsConfigured(t *testing.T) {
	b := NewBuilder(reportingsvc.NewRegistry(), Theme{})

	_, err := b.BuildSheets(builderSchema(), nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestSheetTitleCapsLength(t *testing.T) {
	long := "A Really Long Report Label That Overflows The Sheet Limit"
	assert.Len(t, sheetTitle(long), 31)
	assert.Equal(t, "Short", sheetTitle("Short"))
}
