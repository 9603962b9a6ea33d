package reporting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
)

// Exporter builds a styled workbook from a prepared report. Implemented by
// the export service; declared here so this package stays free of workbook
// concerns.
type Exporter interface {
	BuildWorkbook(schema reporting.Schema, rows []reporting.Row, targets []reporting.Target, start, end *time.Time) ([]byte, error)
}

type inflight struct {
	cancel context.CancelFunc
	manual bool
}

type targetState struct {
	targets []reporting.Target
	dirty   bool
}

type ReportServiceImpl struct {
	registry   *Registry
	schemas    map[string]reporting.Schema
	order      []string
	rowRepo    reporting.RowRepository
	targetRepo reporting.TargetRepository
	exporter   Exporter

	mu          sync.Mutex
	generations map[string]*inflight
	targetEdits map[string]*targetState
}

func NewReportService(
	registry *Registry,
	schemas []reporting.Schema,
	rowRepo reporting.RowRepository,
	targetRepo reporting.TargetRepository,
	exporter Exporter,
) (reporting.ReportService, error) {
	s := &ReportServiceImpl{
		registry:    registry,
		schemas:     make(map[string]reporting.Schema, len(schemas)),
		rowRepo:     rowRepo,
		targetRepo:  targetRepo,
		exporter:    exporter,
		generations: make(map[string]*inflight),
		targetEdits: make(map[string]*targetState),
	}
	for _, schema := range schemas {
		if err := schema.Validate(); err != nil {
			return nil, fmt.Errorf("schema %q: %w", schema.ID, err)
		}
		s.schemas[schema.ID] = schema
		s.order = append(s.order, schema.ID)
	}
	return s, nil
}

func (s *ReportServiceImpl) ListSchemas(ctx context.Context) []reporting.SchemaSummary {
	out := make([]reporting.SchemaSummary, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, reporting.SchemaSummary{ID: id, Label: s.schemas[id].Label})
	}
	return out
}

// beginGeneration enforces the single in-flight guard. A manual request
// colliding with an in-flight poll is rejected so the two never race; any
// other new request supersedes and cancels the prior one.
func (s *ReportServiceImpl) beginGeneration(ctx context.Context, reportID string, manual bool) (context.Context, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.generations[reportID]; ok {
		if manual && !prev.manual {
			return nil, nil, reporting.ErrGenerationInFlight
		}
		prev.cancel()
	}

	genCtx, cancel := context.WithCancel(ctx)
	entry := &inflight{cancel: cancel, manual: manual}
	s.generations[reportID] = entry

	done := func() {
		s.mu.Lock()
		if s.generations[reportID] == entry {
			delete(s.generations, reportID)
		}
		s.mu.Unlock()
		cancel()
	}
	return genCtx, done, nil
}

// Generate produces the filtered, sorted report with footer totals and
// reconciled targets
func (s *ReportServiceImpl) Generate(ctx context.Context, req reporting.GenerateReportRequest) (reporting.GenerateReportResponse, error) {
	if err := req.Validate(); err != nil {
		return reporting.GenerateReportResponse{}, err
	}

	schema, ok := s.schemas[req.ReportID]
	if !ok {
		return reporting.GenerateReportResponse{}, reporting.ErrReportNotFound
	}

	genCtx, done, err := s.beginGeneration(ctx, req.ReportID, req.Manual)
	if err != nil {
		return reporting.GenerateReportResponse{}, err
	}
	defer done()

	rows, targets, flagged, err := s.prepare(genCtx, schema, req.StartDate, req.EndDate, req.Filters)
	if err != nil {
		return reporting.GenerateReportResponse{}, err
	}

	rows = SortRows(rows, schema, req.SortKey, req.SortDir)
	totals := s.registry.ComputeTotals(schema, rows, req.StartDate, req.EndDate)

	// A superseded generation must not surface data: report cancellation
	// instead so callers discard it silently.
	if genCtx.Err() != nil {
		return reporting.GenerateReportResponse{}, reporting.ErrGenerationCancelled
	}

	return reporting.GenerateReportResponse{
		ReportID:    schema.ID,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Rows:        rows,
		Totals:      totals,
		Targets:     targets,
		Flagged:     flagged,
	}, nil
}

// prepare runs the shared head of the pipeline: fetch, schema-validate,
// reconcile targets, filter.
func (s *ReportServiceImpl) prepare(ctx context.Context, schema reporting.Schema, start, end *time.Time, filters []reporting.FilterDef) ([]reporting.Row, []reporting.Target, []reporting.RowIssue, error) {
	rangeStart, rangeEnd := dateRangeOrDefault(start, end)

	raw, err := s.rowRepo.RowsForReport(ctx, schema.ID, rangeStart, rangeEnd)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, nil, reporting.ErrGenerationCancelled
		}
		return nil, nil, nil, fmt.Errorf("failed to get report rows: %w", err)
	}

	rows, flagged := ValidateRows(schema, raw)

	server, err := s.targetRepo.TargetsForReport(ctx, schema.ID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, nil, nil, reporting.ErrGenerationCancelled
		}
		return nil, nil, nil, fmt.Errorf("failed to get report targets: %w", err)
	}

	s.mu.Lock()
	var previous []reporting.Target
	if state, ok := s.targetEdits[schema.ID]; ok {
		previous = state.targets
	}
	s.mu.Unlock()

	targets := ReconcileTargets(schema, previous, server)
	rows = s.registry.ApplyFilters(rows, filters)
	return rows, targets, flagged, nil
}

// UpdateTargets persists edited thresholds. The dirty flag is set on
// mutation and cleared only after the write is confirmed, so a failed
// persist leaves the edit retryable.
func (s *ReportServiceImpl) UpdateTargets(ctx context.Context, req reporting.UpdateTargetsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	schema, ok := s.schemas[req.ReportID]
	if !ok {
		return reporting.ErrReportNotFound
	}
	for _, t := range req.Targets {
		col, ok := schema.Column(t.ID)
		if !ok {
			return reporting.ErrUnknownColumn
		}
		if !col.AllowTarget {
			return reporting.ErrTargetNotAllowed
		}
	}

	s.mu.Lock()
	state, ok := s.targetEdits[req.ReportID]
	if !ok {
		state = &targetState{}
		s.targetEdits[req.ReportID] = state
	}
	state.targets = req.Targets
	state.dirty = true
	s.mu.Unlock()

	if err := s.targetRepo.SaveTargets(ctx, req.ReportID, req.Targets); err != nil {
		return fmt.Errorf("failed to persist targets: %w", err)
	}

	s.mu.Lock()
	state.dirty = false
	s.mu.Unlock()
	return nil
}

// TargetsDirty reports whether a report has edits not yet confirmed
// persisted.
func (s *ReportServiceImpl) TargetsDirty(reportID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.targetEdits[reportID]
	return ok && state.dirty
}

// Export builds the downloadable workbook for a report over a date range.
func (s *ReportServiceImpl) Export(ctx context.Context, req reporting.ExportRequest) (reporting.ExportResult, error) {
	schema, ok := s.schemas[req.ReportID]
	if !ok {
		return reporting.ExportResult{}, reporting.ErrReportNotFound
	}

	rows, targets, _, err := s.prepare(ctx, schema, req.StartDate, req.EndDate, req.Filters)
	if err != nil {
		return reporting.ExportResult{}, err
	}
	rows = SortRows(rows, schema, req.SortKey, req.SortDir)

	content, err := s.exporter.BuildWorkbook(schema, rows, targets, req.StartDate, req.EndDate)
	if err != nil {
		return reporting.ExportResult{}, fmt.Errorf("failed to build workbook: %w", err)
	}

	return reporting.ExportResult{
		FileName:    ExportFileName(schema.Label, req.StartDate, req.EndDate),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}

// ExportFileName renders the download name: "<Label> - <start> - <end>.xlsx"
// with dd/mm/yyyy dates.
func ExportFileName(label string, start, end *time.Time) string {
	rangeStart, rangeEnd := dateRangeOrDefault(start, end)
	return fmt.Sprintf("%s - %s - %s.xlsx",
		label,
		rangeStart.Format("02/01/2006"),
		rangeEnd.Format("02/01/2006"),
	)
}

// dateRangeOrDefault widens an open-ended range to the current month.
func dateRangeOrDefault(start, end *time.Time) (time.Time, time.Time) {
	now := time.Now()
	if start == nil {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		start = &first
	}
	if end == nil {
		last := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
		end = &last
	}
	return *start, *end
}
