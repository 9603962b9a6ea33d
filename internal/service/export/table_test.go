package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openWorkbook(t *testing.T, content []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func rawCell(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	value, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return value
}

func TestBuildTableWorkbookDropsControlColumns(t *testing.T) {
	table := Table{
		Name: "Utilisation",
		Header: []TableCell{
			{Text: "Agent"}, {Text: "Utilisation"}, {Text: ""}, {Text: "Pay"},
		},
		Rows: []TableRow{
			{Cells: []TableCell{
				{Text: "alice"}, {Text: "92.50%", Classes: []string{"green"}}, {Text: "edit"}, {Text: "£1,200.50"},
			}},
		},
		// The action column sits between utilisation and pay on screen.
		ControlColumns: []int{2},
	}

	content, err := BuildTableWorkbook(table)
	require.NoError(t, err)

	f := openWorkbook(t, content)
	assert.Equal(t, "Utilisation", f.GetSheetName(0))

	assert.Equal(t, "Agent", rawCell(t, f, "Utilisation", "A1"))
	assert.Equal(t, "Utilisation", rawCell(t, f, "Utilisation", "B1"))
	// The control column is gone; pay shifts left into C.
	assert.Equal(t, "Pay", rawCell(t, f, "Utilisation", "C1"))
	assert.Equal(t, "", rawCell(t, f, "Utilisation", "D1"))

	assert.Equal(t, "alice", rawCell(t, f, "Utilisation", "A2"))
	// The percentage is stored as its numeric fraction, the currency as a
	// plain number; their display formats carry the decoration.
	assert.Equal(t, "0.925", rawCell(t, f, "Utilisation", "B2"))
	assert.Equal(t, "1200.5", rawCell(t, f, "Utilisation", "C2"))
}

func TestBuildTableWorkbookStylesDiffer(t *testing.T) {
	table := Table{
		Name:   "Styled",
		Header: []TableCell{{Text: "Value"}},
		Rows: []TableRow{
			{Cells: []TableCell{{Text: "90", Classes: []string{"green"}}}},
			{Cells: []TableCell{{Text: "40", Classes: []string{"red"}}}},
			{Cells: []TableCell{{Text: "60", Classes: []string{"zebra"}}}},
			{Cells: []TableCell{{Text: "plain text"}}},
		},
	}

	content, err := BuildTableWorkbook(table)
	require.NoError(t, err)

	f := openWorkbook(t, content)

	greenStyle, err := f.GetCellStyle("Styled", "A2")
	require.NoError(t, err)
	redStyle, err := f.GetCellStyle("Styled", "A3")
	require.NoError(t, err)
	zebraStyle, err := f.GetCellStyle("Styled", "A4")
	require.NoError(t, err)
	plainStyle, err := f.GetCellStyle("Styled", "A5")
	require.NoError(t, err)

	// Classified cells carry distinct styles; a zebra row keeps only the
	// number format and unstyled text stays at the default.
	assert.NotEqual(t, greenStyle, redStyle)
	assert.NotEqual(t, greenStyle, zebraStyle)
	assert.Equal(t, 0, plainStyle)
}

func TestBuildTableWorkbookEmptyRows(t *testing.T) {
	table := Table{
		Name:   "Empty",
		Header: []TableCell{{Text: "Agent"}},
	}

	content, err := BuildTableWorkbook(table)
	require.NoError(t, err)

	f := openWorkbook(t, content)
	assert.Equal(t, "Agent", rawCell(t, f, "Empty", "A1"))
	assert.Equal(t, "", rawCell(t, f, "Empty", "A2"))
}
