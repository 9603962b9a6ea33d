package reporting

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

// Formatter renders a cell's display value. values carries the column's own
// raw value, or the row fields named by the column's Requires list in order.
// params holds the bound report parameters (start/end date etc.) by name.
type Formatter func(values []interface{}, params map[string]string) string

// Expression reports whether a row matches one filter option value.
type Expression func(row reporting.Row, optionValue string) bool

// Registry holds the named executable pieces the declarative schemas refer
// to. Keeping formatters and expressions out of the schema literals keeps
// the schemas serialisable and the logic testable on its own.
type Registry struct {
	formatters  map[string]Formatter
	expressions map[string]Expression
}

func NewRegistry() *Registry {
	r := &Registry{
		formatters:  make(map[string]Formatter),
		expressions: make(map[string]Expression),
	}
	r.registerBuiltins()
	return r
}

func (r *Registry) RegisterFormatter(id string, f Formatter) {
	r.formatters[id] = f
}

func (r *Registry) RegisterExpression(id string, e Expression) {
	r.expressions[id] = e
}

func (r *Registry) Formatter(id string) (Formatter, bool) {
	f, ok := r.formatters[id]
	return f, ok
}

func (r *Registry) Expression(id string) (Expression, bool) {
	e, ok := r.expressions[id]
	return e, ok
}

func (r *Registry) registerBuiltins() {
	r.RegisterFormatter("text", func(values []interface{}, _ map[string]string) string {
		return CellString(first(values))
	})
	r.RegisterFormatter("number:0", fixedFormatter(0))
	r.RegisterFormatter("number:1", fixedFormatter(1))
	r.RegisterFormatter("number:2", fixedFormatter(2))
	r.RegisterFormatter("currency", func(values []interface{}, _ map[string]string) string {
		f, ok := CellFloat(first(values))
		if !ok {
			return ""
		}
		return strconv.FormatFloat(f, 'f', 2, 64)
	})
	r.RegisterFormatter("percent:2", func(values []interface{}, _ map[string]string) string {
		f, ok := CellFloat(first(values))
		if !ok {
			return ""
		}
		return strconv.FormatFloat(f, 'f', 2, 64)
	})
	r.RegisterFormatter("date", func(values []interface{}, _ map[string]string) string {
		t, ok := CellTime(first(values))
		if !ok {
			return ""
		}
		return t.Format("02/01/2006")
	})
	r.RegisterFormatter("duration:hhmm", func(values []interface{}, _ map[string]string) string {
		f, ok := CellFloat(first(values))
		if !ok {
			return ""
		}
		total := int(f + 0.5)
		return fmt.Sprintf("%02d:%02d", total/60, total%60)
	})
	// Renders the bound reporting window, e.g. for period header cells.
	r.RegisterFormatter("daterange", func(_ []interface{}, params map[string]string) string {
		return strings.TrimSpace(params["startDate"] + " - " + params["endDate"])
	})

	r.RegisterExpression("equals", func(row reporting.Row, optionValue string) bool {
		field, value, ok := strings.Cut(optionValue, "=")
		if !ok {
			return false
		}
		return CellString(row[field]) == value
	})
	r.RegisterExpression("nonzero", func(row reporting.Row, optionValue string) bool {
		f, ok := CellFloat(row[optionValue])
		return ok && f != 0
	})
}

func fixedFormatter(places int) Formatter {
	return func(values []interface{}, _ map[string]string) string {
		f, ok := CellFloat(first(values))
		if !ok {
			return ""
		}
		return strconv.FormatFloat(f, 'f', places, 64)
	}
}

func first(values []interface{}) interface{} {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// CellFloat coerces a raw row value to a float. Strings are parsed after
// stripping currency and percent decoration.
func CellFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(strings.Trim(t, "£%"))
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// CellString renders a raw row value as text.
func CellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return t.Format("02/01/2006")
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CellTime coerces a raw row value to a time. String values accept the
// payroll date layout and ISO dates.
func CellTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{"02/01/2006", "2006-01-02", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// BindParams resolves a column's parameter bindings from the active date
// range, falling back to each binding's default when the range is open.
func BindParams(col reporting.ColumnDef, start, end *time.Time) map[string]string {
	if len(col.Parameters) == 0 {
		return nil
	}
	params := make(map[string]string, len(col.Parameters))
	for _, p := range col.Parameters {
		value := p.Default
		switch p.Kind {
		case reporting.ParamStartDate:
			if start != nil {
				value = start.Format("02/01/2006")
			}
		case reporting.ParamEndDate:
			if end != nil {
				value = end.Format("02/01/2006")
			}
		}
		params[p.Name] = value
	}
	return params
}

// FormatCell renders one cell through the column's registered formatter,
// honouring Requires and parameter bindings. The prefix/suffix decoration is
// applied last. Unregistered formatters fall back to plain text so a schema
// typo degrades rather than panics.
func (r *Registry) FormatCell(col reporting.ColumnDef, row reporting.Row, start, end *time.Time) string {
	var values []interface{}
	if len(col.Requires) > 0 {
		values = make([]interface{}, len(col.Requires))
		for i, field := range col.Requires {
			values[i] = row[field]
		}
	} else {
		values = []interface{}{row[col.ID]}
	}

	id := col.FormatterID
	if id == "" {
		id = "text"
	}
	f, ok := r.Formatter(id)
	if !ok {
		f, _ = r.Formatter("text")
	}

	out := f(values, BindParams(col, start, end))
	if out == "" {
		return out
	}
	return col.Prefix + out + col.Suffix
}
