package reporting

// Classification is the colour bucket a cell value falls into against its
// target thresholds.
type Classification string

const (
	ClassificationNone   Classification = ""
	ClassificationGreen  Classification = "green"
	ClassificationRed    Classification = "red"
	ClassificationYellow Classification = "yellow"
)

// SubTarget is a dimension-keyed threshold pair: it applies only to rows
// whose key field equals KeyValue.
type SubTarget struct {
	KeyValue string   `json:"key_value"`
	High     *float64 `json:"high,omitempty"`
	Low      *float64 `json:"low,omitempty"`
}

// Target is the interactive threshold state attached to one column. It is
// initialised from the column's default when a report is first generated,
// edited in place, and reconciled against the server copy whenever a new
// report's data arrives.
type Target struct {
	ID        string    `json:"id"`
	High      *float64  `json:"high,omitempty"`
	Low       *float64  `json:"low,omitempty"`
	Direction Direction `json:"direction"`

	// Key names a row field whose value selects a SubTarget; when set the
	// flat High/Low are ignored.
	Key string      `json:"key,omitempty"`
	Sub []SubTarget `json:"sub,omitempty"`
}

// FilterMode is the per-option behaviour of an advanced filter.
type FilterMode string

const (
	// FilterModeSolo includes the row unconditionally when the option is
	// checked and matches.
	FilterModeSolo FilterMode = "solo"

	// FilterModeAnd requires the row to match at least one checked "and"
	// option and no unchecked option.
	FilterModeAnd FilterMode = "and"
)

// FilterOption is one selectable value within a filter definition.
type FilterOption struct {
	Label   string     `json:"label"`
	Value   string     `json:"value"`
	Checked bool       `json:"checked"`
	Mode    FilterMode `json:"mode,omitempty"`
}

// FilterKind selects how a definition's checked options combine.
type FilterKind string

const (
	// FilterSimple keeps rows matching any checked option; with nothing
	// checked the filter is a no-op.
	FilterSimple FilterKind = ""

	// FilterInclude behaves as FilterSimple; kept distinct because report
	// schemas declare it explicitly.
	FilterInclude FilterKind = "include"

	// FilterExclude drops rows matching any checked option.
	FilterExclude FilterKind = "exclude"

	// FilterAdvanced applies per-option solo/and modes and requires at
	// least one checked option to pass anything.
	FilterAdvanced FilterKind = "advanced"
)

// FilterDef declares one filter over the report's rows. ExpressionID names
// a registered expression taking (row, option value) and reporting a match.
type FilterDef struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	ExpressionID string         `json:"expression_id"`
	Kind         FilterKind     `json:"kind,omitempty"`
	Options      []FilterOption `json:"options"`
}
