package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
	reportingsvc "github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/service/reporting"
)

// RowPredicate decides whether a source row appears on a sheet.
type RowPredicate func(row reporting.Row) bool

// RowColor names the colour applied to a data row, or "" for none.
type RowColor func(row reporting.Row) string

// SheetCell is one cell of a sheet's header matrix. Header band cells carry
// a label and optional spans; the matrix's final row carries the field keys
// that drive data resolution, one per output column.
type SheetCell struct {
	Label   string
	Field   string
	RowSpan int
	ColSpan int
	Color   string
}

// SheetConfig declares one worksheet of a declarative export.
type SheetConfig struct {
	Name      string
	Matrix    [][]SheetCell
	Widths    []float64
	RowHeight float64

	PredicateID string
	SortKey     string
	SortDir     reporting.Direction
	RowColorID  string

	// Fixed overrides field resolution with literal values.
	Fixed map[string]string

	// SubDataField expands each source row into one output row per item of
	// the named sub-array field; item fields shadow the parent row's.
	SubDataField string
}

// Builder produces workbooks for report schemas: a declarative multi-sheet
// layout where one is registered, otherwise a default grid that reproduces
// the on-screen table with its conditional formatting.
type Builder struct {
	registry   *reportingsvc.Registry
	layouts    map[string][]SheetConfig
	predicates map[string]RowPredicate
	colors     map[string]RowColor
	theme      Theme
}

func NewBuilder(registry *reportingsvc.Registry, theme Theme) *Builder {
	return &Builder{
		registry:   registry,
		layouts:    make(map[string][]SheetConfig),
		predicates: make(map[string]RowPredicate),
		colors:     make(map[string]RowColor),
		theme:      theme,
	}
}

func (b *Builder) RegisterLayout(reportID string, sheets []SheetConfig) {
	b.layouts[reportID] = sheets
}

func (b *Builder) RegisterPredicate(id string, p RowPredicate) {
	b.predicates[id] = p
}

func (b *Builder) RegisterRowColor(id string, c RowColor) {
	b.colors[id] = c
}

// BuildWorkbook implements the reporting service's Exporter.
func (b *Builder) BuildWorkbook(schema reporting.Schema, rows []reporting.Row, targets []reporting.Target, start, end *time.Time) ([]byte, error) {
	if sheets, ok := b.layouts[schema.ID]; ok {
		return b.BuildSheets(schema, rows, start, end, sheets)
	}
	return BuildTableWorkbook(b.gridTable(schema, rows, targets, start, end))
}

// gridTable renders the report the way the screen shows it: formatted cells
// with their classification colour tokens, control columns marked for
// removal.
func (b *Builder) gridTable(schema reporting.Schema, rows []reporting.Row, targets []reporting.Target, start, end *time.Time) Table {
	table := Table{Name: sheetTitle(schema.Label), Theme: b.theme}

	var columns []reporting.ColumnDef
	for _, col := range schema.Columns {
		if !col.Visible {
			continue
		}
		if col.DataType == reporting.DataTypeControl {
			table.ControlColumns = append(table.ControlColumns, len(columns))
		}
		columns = append(columns, col)
		table.Header = append(table.Header, TableCell{Text: col.Label})
	}

	for _, row := range rows {
		out := TableRow{Cells: make([]TableCell, 0, len(columns))}
		for _, col := range columns {
			cell := TableCell{Text: b.registry.FormatCell(col, row, start, end)}
			if class := reportingsvc.Classify(col, row, targets); class != reporting.ClassificationNone {
				cell.Classes = []string{string(class)}
			}
			out.Cells = append(out.Cells, cell)
		}
		table.Rows = append(table.Rows, out)
	}
	return table
}

// BuildSheets produces one worksheet per sheet config. Any panic inside the
// workbook library is recovered into an error so callers degrade to a toast
// rather than crash.
func (b *Builder) BuildSheets(schema reporting.Schema, rows []reporting.Row, start, end *time.Time, sheets []SheetConfig) (content []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workbook construction failed: %v", r)
		}
	}()

	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets configured")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		name := sheet.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return nil, err
			}
		}
		if err := b.buildSheet(f, name, schema, rows, start, end, sheet); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b *Builder) buildSheet(f *excelize.File, name string, schema reporting.Schema, rows []reporting.Row, start, end *time.Time, sheet SheetConfig) error {
	styles := newStyleCache(f)

	fields, err := writeHeaderMatrix(f, name, sheet, styles)
	if err != nil {
		return err
	}

	visible := b.sheetRows(schema, rows, sheet)

	var colorOf RowColor
	if sheet.RowColorID != "" {
		colorOf = b.colors[sheet.RowColorID]
	}

	rowIdx := len(sheet.Matrix) + 1
	for _, row := range visible {
		for _, item := range expandSubData(row, sheet.SubDataField) {
			colorName := ""
			if colorOf != nil {
				colorName = colorOf(row)
			}
			if err := b.writeDataRow(f, name, rowIdx, fields, schema, item, start, end, sheet, colorName, styles); err != nil {
				return err
			}
			if sheet.RowHeight > 0 {
				if err := f.SetRowHeight(name, rowIdx, sheet.RowHeight); err != nil {
					return err
				}
			}
			rowIdx++
		}
	}

	for i, width := range sheet.Widths {
		colName, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
	}
	return nil
}

// sheetRows applies the sheet's filter predicate and sort to the source rows.
func (b *Builder) sheetRows(schema reporting.Schema, rows []reporting.Row, sheet SheetConfig) []reporting.Row {
	out := rows
	if sheet.PredicateID != "" {
		if pred, ok := b.predicates[sheet.PredicateID]; ok {
			filtered := make([]reporting.Row, 0, len(rows))
			for _, row := range rows {
				if pred(row) {
					filtered = append(filtered, row)
				}
			}
			out = filtered
		}
	}
	if sheet.SortKey != "" {
		out = reportingsvc.SortRows(out, schema, sheet.SortKey, sheet.SortDir)
	}
	return out
}

// writeHeaderMatrix lays out the banded header, honouring row/column spans
// via an occupancy grid, and returns the field keys in column order. A cell
// contributes its field at its own column when its vertical extent reaches
// the matrix's final row, so row-spanning cells line up with the data
// columns beneath them.
func writeHeaderMatrix(f *excelize.File, name string, sheet SheetConfig, styles *styleCache) ([]string, error) {
	occupied := make(map[[2]int]bool)
	fieldByCol := make(map[int]string)
	maxCol := 0
	last := len(sheet.Matrix) - 1

	for r, matrixRow := range sheet.Matrix {
		col := 1
		for _, cell := range matrixRow {
			for occupied[[2]int{r, col}] {
				col++
			}

			rowSpan := cell.RowSpan
			if rowSpan < 1 {
				rowSpan = 1
			}
			colSpan := cell.ColSpan
			if colSpan < 1 {
				colSpan = 1
			}
			for dr := 0; dr < rowSpan; dr++ {
				for dc := 0; dc < colSpan; dc++ {
					occupied[[2]int{r + dr, col + dc}] = true
				}
			}

			topLeft, err := excelize.CoordinatesToCellName(col, r+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(name, topLeft, cell.Label); err != nil {
				return nil, err
			}
			if rowSpan > 1 || colSpan > 1 {
				bottomRight, err := excelize.CoordinatesToCellName(col+colSpan-1, r+rowSpan)
				if err != nil {
					return nil, err
				}
				if err := f.MergeCell(name, topLeft, bottomRight); err != nil {
					return nil, err
				}
			}

			styleID, err := styles.band(cell.Color)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(name, topLeft, topLeft, styleID); err != nil {
				return nil, err
			}

			if r+rowSpan-1 == last {
				fieldByCol[col] = cell.Field
			}
			if end := col + colSpan - 1; end > maxCol {
				maxCol = end
			}
			col += colSpan
		}
	}

	fields := make([]string, maxCol)
	for col, field := range fieldByCol {
		fields[col-1] = field
	}
	return fields, nil
}

func (b *Builder) writeDataRow(f *excelize.File, name string, rowIdx int, fields []string, schema reporting.Schema, row reporting.Row, start, end *time.Time, sheet SheetConfig, colorName string, styles *styleCache) error {
	for i, field := range fields {
		cellName, err := excelize.CoordinatesToCellName(i+1, rowIdx)
		if err != nil {
			return err
		}

		value := b.resolveValue(schema, row, field, start, end, sheet)
		if err := f.SetCellValue(name, cellName, value); err != nil {
			return err
		}

		if colorName != "" {
			styleID, err := styles.named(colorName)
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(name, cellName, cellName, styleID); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveValue follows the declarative resolution order: the fixed map
// first, then the row through the matching column's formatter with bound
// date parameters, then the raw field text.
func (b *Builder) resolveValue(schema reporting.Schema, row reporting.Row, field string, start, end *time.Time, sheet SheetConfig) string {
	if fixed, ok := sheet.Fixed[field]; ok {
		return fixed
	}
	if col, ok := schema.Column(field); ok {
		return b.registry.FormatCell(col, row, start, end)
	}
	return reportingsvc.CellString(row[field])
}

// expandSubData turns one source row into its output rows. Without a
// sub-data field the row maps to itself; with one, each item of the named
// sub-array becomes a row whose fields shadow the parent's.
func expandSubData(row reporting.Row, field string) []reporting.Row {
	if field == "" {
		return []reporting.Row{row}
	}
	items, ok := row[field].([]interface{})
	if !ok {
		return nil
	}
	out := make([]reporting.Row, 0, len(items))
	for _, raw := range items {
		item, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		merged := make(reporting.Row, len(row)+len(item))
		for k, v := range row {
			merged[k] = v
		}
		for k, v := range item {
			merged[k] = v
		}
		out = append(out, merged)
	}
	return out
}

// sheetTitle trims a label to Excel's 31-character sheet name limit.
func sheetTitle(label string) string {
	if len(label) > 31 {
		return label[:31]
	}
	return label
}
