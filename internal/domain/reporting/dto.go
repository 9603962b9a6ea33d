package reporting

import (
	"time"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/validator"
)

// Row is one report record keyed by column id. Rows arrive as arbitrary
// JSON; a schema-validation pass flags rows missing required fields before
// they reach formatting or export.
type Row map[string]interface{}

// RowIssue flags a row rejected or degraded during schema validation.
type RowIssue struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type GenerateReportRequest struct {
	ReportID  string      `json:"report_id"`
	StartDate *time.Time  `json:"start_date,omitempty"`
	EndDate   *time.Time  `json:"end_date,omitempty"`
	SortKey   string      `json:"sort_key,omitempty"`
	SortDir   Direction   `json:"sort_dir,omitempty"`
	Filters   []FilterDef `json:"filters,omitempty"`

	// Manual marks a user-initiated regeneration, which must not race a
	// poll-triggered one already in flight.
	Manual bool `json:"manual,omitempty"`
}

func (r *GenerateReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ReportID) {
		errs = append(errs, validator.ValidationError{
			Field:   "report_id",
			Message: "report_id is required",
		})
	}

	if r.SortDir != "" && r.SortDir != DirectionAsc && r.SortDir != DirectionDesc {
		errs = append(errs, validator.ValidationError{
			Field:   "sort_dir",
			Message: "sort_dir must be asc or desc",
		})
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ColumnTotal is one footer cell, already formatted for display.
type ColumnTotal struct {
	ColumnID string `json:"column_id"`
	Value    string `json:"value"`
}

type GenerateReportResponse struct {
	ReportID    string        `json:"report_id"`
	GeneratedAt string        `json:"generated_at"`
	Rows        []Row         `json:"rows"`
	Totals      []ColumnTotal `json:"totals"`
	Targets     []Target      `json:"targets"`
	Flagged     []RowIssue    `json:"flagged,omitempty"`
}

type UpdateTargetsRequest struct {
	ReportID string   `json:"report_id"`
	Targets  []Target `json:"targets"`
}

func (r *UpdateTargetsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ReportID) {
		errs = append(errs, validator.ValidationError{
			Field:   "report_id",
			Message: "report_id is required",
		})
	}
	for _, target := range r.Targets {
		if validator.IsEmpty(target.ID) {
			errs = append(errs, validator.ValidationError{
				Field:   "targets",
				Message: "every target must reference a column id",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SchemaSummary is the list-view shape of a report schema.
type SchemaSummary struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type ExportRequest struct {
	ReportID  string      `json:"report_id"`
	StartDate *time.Time  `json:"start_date,omitempty"`
	EndDate   *time.Time  `json:"end_date,omitempty"`
	SortKey   string      `json:"sort_key,omitempty"`
	SortDir   Direction   `json:"sort_dir,omitempty"`
	Filters   []FilterDef `json:"filters,omitempty"`
}

// ExportResult is a fully built workbook ready to stream to the caller.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}
