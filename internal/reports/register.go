// Package reports holds the static report definitions: the declarative
// column schemas and the styled export layouts that go with them.
package reports

import (
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/service/export"
)

// All returns every report schema in display order.
func All() []reporting.Schema {
	return []reporting.Schema{
		PayrollSchema(),
		UtilisationSchema(),
	}
}

// RegisterLayouts wires the styled export layouts and their predicates and
// row colours into the workbook builder. Reports without a layout fall back
// to the builder's default grid.
func RegisterLayouts(builder *export.Builder) {
	builder.RegisterPredicate("has-statutory", hasStatutory)
	builder.RegisterRowColor("statutory-level", statutoryLevel)
	builder.RegisterLayout("payroll", payrollSheets())
}
