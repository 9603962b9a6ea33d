package payrollimport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/payrollimport"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/events"
)

type ImportServiceImpl struct {
	repo payrollimport.ImportRepository
	hub  *events.Hub
}

func NewImportService(repo payrollimport.ImportRepository, hub *events.Hub) payrollimport.ImportService {
	return &ImportServiceImpl{repo: repo, hub: hub}
}

// Import runs the pipeline: read, validate structure against the first
// line, transform every line, store the batch. Progress is reported at the
// fixed phase boundaries with a trickle while the store is in flight. A
// cancelled context aborts without storing anything and without being
// reported as a failure.
func (s *ImportServiceImpl) Import(ctx context.Context, req payrollimport.ImportRequest) (payrollimport.ImportResult, error) {
	progress := req.Progress
	if progress == nil {
		progress = func(float64) {}
	}

	lines, err := readLines(req.Content)
	if err != nil {
		return payrollimport.ImportResult{}, err
	}
	progress(payrollimport.ProgressRead)

	if err := validateStructure(lines[0]); err != nil {
		return payrollimport.ImportResult{}, err
	}
	progress(payrollimport.ProgressValidated)

	batch := transform(lines)
	progress(payrollimport.ProgressTransform)

	if err := ctx.Err(); err != nil {
		return payrollimport.ImportResult{}, err
	}

	stopTrickle := trickleProgress(progress)
	imported, updated, err := s.repo.UpsertBatch(ctx, batch.Records)
	stopTrickle()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return payrollimport.ImportResult{}, err
		}
		return payrollimport.ImportResult{}, fmt.Errorf("%w: %v", payrollimport.ErrImportStorage, err)
	}

	result := payrollimport.ImportResult{
		BatchID:  uuid.NewString(),
		Imported: imported,
		Updated:  updated,
		Errors:   batch.Errors,
	}

	entry := payrollimport.HistoryEntry{
		ID:         result.BatchID,
		FileName:   req.FileName,
		Imported:   imported,
		Updated:    updated,
		ErrorCount: len(batch.Errors),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.InsertHistory(ctx, entry); err != nil {
		return payrollimport.ImportResult{}, fmt.Errorf("failed to record import history: %w", err)
	}

	progress(payrollimport.ProgressDone)
	s.hub.Publish(events.TopicImportCompleted, result)
	return result, nil
}

// History lists past import runs, newest first
func (s *ImportServiceImpl) History(ctx context.Context, limit int) ([]payrollimport.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.repo.ListHistory(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import history: %w", err)
	}
	return entries, nil
}

// trickleProgress advances the fraction from the store-start boundary
// toward (never reaching) the cap while the batch write is pending. The
// returned stop function must be called exactly once.
func trickleProgress(progress payrollimport.ProgressFunc) func() {
	stop := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		fraction := payrollimport.ProgressStoreStart
		progress(fraction)
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if fraction+0.01 < payrollimport.ProgressStoreCap {
					fraction += 0.01
					progress(fraction)
				}
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}
