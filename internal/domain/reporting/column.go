package reporting

// DataType classifies a column's raw values for sorting, totals and export.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeInteger DataType = "integer"
	DataTypeFloat   DataType = "float"
	DataTypeDate    DataType = "date"

	// DataTypeControl marks a non-data column (row actions etc.) excluded
	// from sorting, totals and export.
	DataTypeControl DataType = "control"
)

// Direction states which way a target threshold reads: for asc, values at or
// above the high bound are favourable; for desc the comparisons invert.
type Direction string

const (
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// ParamKind identifies which report parameter a formatter binding draws from.
type ParamKind string

const (
	ParamStartDate ParamKind = "startDate"
	ParamEndDate   ParamKind = "endDate"
)

// ParamBinding binds a named formatter parameter to a report-level value at
// generation or export time.
type ParamBinding struct {
	Name    string    `json:"name"`
	Kind    ParamKind `json:"kind"`
	Default string    `json:"default,omitempty"`
}

// Bounds is a high/low threshold pair. Either side may be absent.
type Bounds struct {
	High *float64 `json:"high,omitempty"`
	Low  *float64 `json:"low,omitempty"`
}

// ColumnDef is the declarative description of one reportable column. The
// executable pieces (formatter, filter expressions) are referenced by
// registry id so the schema itself is plain, serialisable data.
type ColumnDef struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	DataType DataType `json:"data_type"`
	Visible  bool     `json:"visible"`

	AllowTarget     bool      `json:"allow_target,omitempty"`
	TargetDefault   *Bounds   `json:"target_default,omitempty"`
	TargetDirection Direction `json:"target_direction,omitempty"`

	// NumeratorID/DenominatorID reference sibling columns when this column
	// is a derived ratio. Totals and target evaluation use the weighted
	// ratio of the referenced columns, never this column's own raw sum.
	NumeratorID   string `json:"numerator_id,omitempty"`
	DenominatorID string `json:"denominator_id,omitempty"`

	FormatterID string `json:"formatter_id,omitempty"`

	// Requires lists other row fields passed positionally to the formatter
	// in place of the column's own value.
	Requires []string `json:"requires,omitempty"`

	Parameters []ParamBinding `json:"parameters,omitempty"`

	Prefix string `json:"prefix,omitempty"`
	Suffix string `json:"suffix,omitempty"`
}

// IsRatio reports whether the column totals as a weighted percentage.
func (c ColumnDef) IsRatio() bool {
	return c.NumeratorID != "" && c.DenominatorID != ""
}

// Schema is the full declarative column set for one report.
type Schema struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Columns []ColumnDef `json:"columns"`
}

// Column looks up a column definition by id.
func (s Schema) Column(id string) (ColumnDef, bool) {
	for _, c := range s.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// Validate checks the schema's internal consistency: unique ids and the
// ratio invariant (numerator and denominator set together, both resolving
// to real columns).
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if c.ID == "" {
			return ErrInvalidSchema
		}
		if _, dup := seen[c.ID]; dup {
			return ErrInvalidSchema
		}
		seen[c.ID] = struct{}{}

		if (c.NumeratorID == "") != (c.DenominatorID == "") {
			return ErrInvalidSchema
		}
	}
	for _, c := range s.Columns {
		if !c.IsRatio() {
			continue
		}
		if _, ok := s.Column(c.NumeratorID); !ok {
			return ErrInvalidSchema
		}
		if _, ok := s.Column(c.DenominatorID); !ok {
			return ErrInvalidSchema
		}
	}
	return nil
}
