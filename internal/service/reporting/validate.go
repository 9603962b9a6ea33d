package reporting

import (
	"fmt"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

// ValidateRows screens incoming rows against the schema before they reach
// formatting or export. A row missing a field another column's formatter or
// ratio depends on is dropped and flagged; a missing plain column value just
// renders empty downstream, so it is not an error.
func ValidateRows(schema reporting.Schema, rows []reporting.Row) ([]reporting.Row, []reporting.RowIssue) {
	required := requiredFields(schema)
	if len(required) == 0 {
		return rows, nil
	}

	clean := make([]reporting.Row, 0, len(rows))
	var flagged []reporting.RowIssue

	for i, row := range rows {
		missing := ""
		for _, field := range required {
			if _, ok := row[field]; !ok {
				missing = field
				break
			}
		}
		if missing != "" {
			flagged = append(flagged, reporting.RowIssue{
				Index:   i,
				Field:   missing,
				Message: fmt.Sprintf("row is missing required field %q", missing),
			})
			continue
		}
		clean = append(clean, row)
	}
	return clean, flagged
}

func requiredFields(schema reporting.Schema) []string {
	seen := make(map[string]struct{})
	var fields []string
	add := func(field string) {
		if field == "" {
			return
		}
		if _, ok := seen[field]; ok {
			return
		}
		seen[field] = struct{}{}
		fields = append(fields, field)
	}

	for _, col := range schema.Columns {
		for _, f := range col.Requires {
			add(f)
		}
		if col.IsRatio() {
			add(col.NumeratorID)
			add(col.DenominatorID)
		}
	}
	return fields
}
