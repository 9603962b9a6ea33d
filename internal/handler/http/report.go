package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/handler/http/response"
)

type ReportHandler interface {
	// Report schemas
	List(w http.ResponseWriter, r *http.Request)

	// Generation
	Generate(w http.ResponseWriter, r *http.Request)

	// Targets
	UpdateTargets(w http.ResponseWriter, r *http.Request)

	// Styled workbook download
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService reporting.ReportService
}

func NewReportHandler(reportService reporting.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// parseDateParam reads an ISO date query parameter, nil when absent.
func parseDateParam(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List handles GET /reports
func (h *reportHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.reportService.ListSchemas(r.Context()))
}

// Generate handles POST /reports/{report}/generate
func (h *reportHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reporting.GenerateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ReportID = chi.URLParam(r, "report")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.reportService.Generate(ctx, req)
	if err != nil {
		// A superseded generation is not a failure; the newer request owns
		// the screen state, so this caller just gets told to stand down.
		if errors.Is(err, reporting.ErrGenerationCancelled) {
			response.Conflict(w, "Report generation was superseded")
			return
		}
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateTargets handles PUT /reports/{report}/targets
func (h *reportHandlerImpl) UpdateTargets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req reporting.UpdateTargetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ReportID = chi.URLParam(r, "report")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.reportService.UpdateTargets(ctx, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Targets updated", nil)
}

// Export handles GET /reports/{report}/export
func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := reporting.ExportRequest{
		ReportID: chi.URLParam(r, "report"),
		SortKey:  r.URL.Query().Get("sort_key"),
		SortDir:  reporting.Direction(r.URL.Query().Get("sort_dir")),
	}

	var err error
	if req.StartDate, err = parseDateParam(r, "start_date"); err != nil {
		response.BadRequest(w, "invalid start_date parameter", nil)
		return
	}
	if req.EndDate, err = parseDateParam(r, "end_date"); err != nil {
		response.BadRequest(w, "invalid end_date parameter", nil)
		return
	}

	result, err := h.reportService.Export(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}
