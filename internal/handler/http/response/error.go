package response

import (
	"errors"
	"net/http"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/payrollimport"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// CSV structure errors carry the offending field
	var structureErr *payrollimport.StructureError
	if errors.As(err, &structureErr) {
		BadRequest(w, structureErr.Error(), map[string]string{
			structureErr.Field: structureErr.Message,
		})
		return
	}

	switch {
	// Reporting domain errors
	case errors.Is(err, reporting.ErrReportNotFound):
		NotFound(w, "Report not found")
	case errors.Is(err, reporting.ErrUnknownColumn):
		BadRequest(w, "Unknown report column", nil)
	case errors.Is(err, reporting.ErrTargetNotAllowed):
		BadRequest(w, "Column does not allow a target", nil)
	case errors.Is(err, reporting.ErrGenerationInFlight):
		Conflict(w, "A report generation is already in flight")

	// Import domain errors
	case errors.Is(err, payrollimport.ErrEmptyFile):
		BadRequest(w, "File is empty", nil)
	case errors.Is(err, payrollimport.ErrImportStorage):
		InternalServerError(w, "Failed to store imported data")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
