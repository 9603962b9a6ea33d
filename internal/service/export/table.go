package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TableCell is one rendered cell: its display text plus the CSS class
// tokens the view attached to it.
type TableCell struct {
	Text    string
	Classes []string
}

// TableRow is one rendered row.
type TableRow struct {
	Cells   []TableCell
	Classes []string
}

// Table is the rendered on-screen table handed over for export: header and
// body exactly as displayed, plus the indexes of control (action) columns
// that must not reach the worksheet.
type Table struct {
	Name           string
	Header         []TableCell
	Rows           []TableRow
	ControlColumns []int
	Theme          Theme
}

// BuildTableWorkbook converts a rendered table to a single-sheet workbook.
// Control columns are removed from header and body by index before
// anything is written, keeping alignment intact. Cell styling is inferred
// from class tokens and cell text; zebra-striped rows skip style inference.
// Any panic inside the workbook library is recovered into an error so the
// caller can degrade gracefully.
func BuildTableWorkbook(t Table) (content []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workbook construction failed: %v", r)
		}
	}()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if t.Name != "" {
		if err := f.SetSheetName(sheet, t.Name); err != nil {
			return nil, err
		}
		sheet = t.Name
	}

	drop := make(map[int]struct{}, len(t.ControlColumns))
	for _, i := range t.ControlColumns {
		drop[i] = struct{}{}
	}

	styles := newStyleCache(f)

	headerStyle, err := styles.header()
	if err != nil {
		return nil, err
	}
	col := 1
	for i, cell := range t.Header {
		if _, skip := drop[i]; skip {
			continue
		}
		name, err := excelize.CoordinatesToCellName(col, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, name, cell.Text); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, name, name, headerStyle); err != nil {
			return nil, err
		}
		col++
	}

	for rowIdx, row := range t.Rows {
		zebra := hasClass(row.Classes, "zebra")
		col = 1
		for i, cell := range row.Cells {
			if _, skip := drop[i]; skip {
				continue
			}
			name, err := excelize.CoordinatesToCellName(col, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := writeInferredCell(f, sheet, name, cell, zebra, t.Theme, styles); err != nil {
				return nil, err
			}
			col++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeInferredCell(f *excelize.File, sheet, name string, cell TableCell, zebra bool, theme Theme, styles *styleCache) error {
	inferred := inferCell(cell.Text)

	if inferred.Kind == kindText {
		if err := f.SetCellValue(sheet, name, cell.Text); err != nil {
			return err
		}
	} else {
		if err := f.SetCellValue(sheet, name, inferred.Number); err != nil {
			return err
		}
	}

	if zebra {
		// Striping is cosmetic; the sheet carries the plain value only.
		if inferred.NumFmt != "" {
			id, err := styles.numeric(inferred.NumFmt, colorPair{}, false)
			if err != nil {
				return err
			}
			return f.SetCellStyle(sheet, name, name, id)
		}
		return nil
	}

	color, hasColor := classColor(cell.Classes, theme)
	if !hasColor && inferred.NumFmt == "" {
		return nil
	}
	id, err := styles.numeric(inferred.NumFmt, color, hasColor)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, name, name, id)
}

// styleCache deduplicates excelize style registrations per workbook.
type styleCache struct {
	f     *excelize.File
	known map[string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, known: make(map[string]int)}
}

func (c *styleCache) header() (int, error) {
	return c.lookup("header||", func() (int, error) {
		return c.f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
		})
	})
}

func (c *styleCache) numeric(numFmt string, color colorPair, colored bool) (int, error) {
	key := fmt.Sprintf("cell|%s|%s|%s|%t", numFmt, color.Fill, color.Font, colored)
	return c.lookup(key, func() (int, error) {
		style := &excelize.Style{}
		if numFmt != "" {
			style.CustomNumFmt = &numFmt
		}
		if colored {
			style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color.Fill}}
			style.Font = &excelize.Font{Color: color.Font}
		}
		return c.f.NewStyle(style)
	})
}

// band is the declarative pathway's header style: bold, centred, filled
// from the direct colour table (navy when unnamed).
func (c *styleCache) band(colorName string) (int, error) {
	color, ok := namedColor(colorName)
	if !ok {
		color = namedColors["navy"]
	}
	key := fmt.Sprintf("band|%s|%s", color.Fill, color.Font)
	return c.lookup(key, func() (int, error) {
		return c.f.NewStyle(&excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: color.Font},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color.Fill}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		})
	})
}

// named is the declarative pathway's data style for row-level colouring.
func (c *styleCache) named(colorName string) (int, error) {
	color, ok := namedColor(colorName)
	if !ok {
		return c.lookup("plain||", func() (int, error) {
			return c.f.NewStyle(&excelize.Style{})
		})
	}
	key := fmt.Sprintf("named|%s|%s", color.Fill, color.Font)
	return c.lookup(key, func() (int, error) {
		return c.f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Color: color.Font},
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color.Fill}},
		})
	})
}

func (c *styleCache) lookup(key string, build func() (int, error)) (int, error) {
	if id, ok := c.known[key]; ok {
		return id, nil
	}
	id, err := build()
	if err != nil {
		return 0, err
	}
	c.known[key] = id
	return id, nil
}
