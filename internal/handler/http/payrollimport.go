package http

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/payrollimport"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/handler/http/response"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/events"
)

const maxImportSize = 10 << 20 // 10MB

type PayrollImportHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
}

type payrollImportHandlerImpl struct {
	importService payrollimport.ImportService
	hub           *events.Hub
}

func NewPayrollImportHandler(importService payrollimport.ImportService, hub *events.Hub) PayrollImportHandler {
	return &payrollImportHandlerImpl{
		importService: importService,
		hub:           hub,
	}
}

// Import handles POST /payroll/import
func (h *payrollImportHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required", nil)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxImportSize))
	if err != nil {
		response.BadRequest(w, "Failed to read uploaded file", nil)
		return
	}

	req := payrollimport.ImportRequest{
		FileName: fileHeader.Filename,
		Content:  content,
		Progress: func(fraction float64) {
			h.hub.Publish(events.TopicImportProgress, map[string]interface{}{
				"file_name": fileHeader.Filename,
				"progress":  fraction,
			})
		},
	}

	result, err := h.importService.Import(ctx, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Summary(), result)
}

// History handles GET /payroll/import/history
func (h *payrollImportHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if val := r.URL.Query().Get("limit"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 1 {
			response.BadRequest(w, "invalid limit parameter", nil)
			return
		}
		limit = parsed
	}

	entries, err := h.importService.History(ctx, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}
