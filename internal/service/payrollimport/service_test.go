package payrollimport

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/payrollimport"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/events"
)

type stubImportRepo struct {
	mu        sync.Mutex
	records   []payrollimport.PayrollRecord
	history   []payrollimport.HistoryEntry
	upsertErr error
	imported  int
	updated   int
}

func (r *stubImportRepo) UpsertBatch(ctx context.Context, records []payrollimport.PayrollRecord) (int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return 0, 0, r.upsertErr
	}
	r.records = append(r.records, records...)
	return r.imported, r.updated, nil
}

func (r *stubImportRepo) InsertHistory(ctx context.Context, entry payrollimport.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, entry)
	return nil
}

func (r *stubImportRepo) ListHistory(ctx context.Context, limit int) ([]payrollimport.HistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.history) {
		limit = len(r.history)
	}
	return r.history[:limit], nil
}

func importContent(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

func TestImportHappyPath(t *testing.T) {
	repo := &stubImportRepo{imported: 1, updated: 1}
	hub := events.NewHub()
	svc := NewImportService(repo, hub)

	completed, cleanup := hub.Subscribe(events.TopicImportCompleted)
	defer cleanup()

	var fractions []float64
	result, err := svc.Import(context.Background(), payrollimport.ImportRequest{
		FileName: "grosspay.csv",
		Content: importContent(
			sampleLine("12345", "15/04/2025"),
			sampleLine("12346", "15/04/2025"),
		),
		Progress: func(f float64) { fractions = append(fractions, f) },
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.BatchID)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)

	// Phase boundaries in order, ending at completion.
	require.GreaterOrEqual(t, len(fractions), 5)
	assert.Equal(t, payrollimport.ProgressRead, fractions[0])
	assert.Equal(t, payrollimport.ProgressValidated, fractions[1])
	assert.Equal(t, payrollimport.ProgressTransform, fractions[2])
	assert.Equal(t, payrollimport.ProgressStoreStart, fractions[3])
	assert.Equal(t, payrollimport.ProgressDone, fractions[len(fractions)-1])
	for _, f := range fractions[3 : len(fractions)-1] {
		assert.Less(t, f, payrollimport.ProgressStoreCap)
	}

	// History recorded and completion published.
	require.Len(t, repo.history, 1)
	assert.Equal(t, "grosspay.csv", repo.history[0].FileName)
	assert.Equal(t, result.BatchID, repo.history[0].ID)

	select {
	case event := <-completed:
		published, ok := event.Data.(payrollimport.ImportResult)
		require.True(t, ok)
		assert.Equal(t, result.BatchID, published.BatchID)
	case <-time.After(time.Second):
		t.Fatal("expected an import-completed event")
	}
}

func TestImportEmptyFile(t *testing.T) {
	svc := NewImportService(&stubImportRepo{}, events.NewHub())

	_, err := svc.Import(context.Background(), payrollimport.ImportRequest{Content: []byte("\n")})
	assert.ErrorIs(t, err, payrollimport.ErrEmptyFile)
}

func TestImportStructureFailureStoresNothing(t *testing.T) {
	repo := &stubImportRepo{}
	svc := NewImportService(repo, events.NewHub())

	_, err := svc.Import(context.Background(), payrollimport.ImportRequest{
		Content: importContent(sampleLine("12345", "not-a-date")),
	})

	var structureErr *payrollimport.StructureError
	require.ErrorAs(t, err, &structureErr)
	assert.Equal(t, "payroll date", structureErr.Field)
	assert.Empty(t, repo.records)
	assert.Empty(t, repo.history)
}

func TestImportStorageFailure(t *testing.T) {
	repo := &stubImportRepo{upsertErr: errors.New("connection refused")}
	svc := NewImportService(repo, events.NewHub())

	_, err := svc.Import(context.Background(), payrollimport.ImportRequest{
		Content: importContent(sampleLine("12345", "15/04/2025")),
	})

	assert.ErrorIs(t, err, payrollimport.ErrImportStorage)
}

func TestImportCancelledContextIsNotAFailure(t *testing.T) {
	repo := &stubImportRepo{}
	svc := NewImportService(repo, events.NewHub())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Import(ctx, payrollimport.ImportRequest{
		Content: importContent(sampleLine("12345", "15/04/2025")),
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, payrollimport.ErrImportStorage)
	assert.Empty(t, repo.records)
}

func TestImportResultSummary(t *testing.T) {
	cases := []struct {
		result payrollimport.ImportResult
		want   string
	}{
		{payrollimport.ImportResult{Imported: 10, Updated: 2}, "10 imported, 2 updated"},
		{payrollimport.ImportResult{Imported: 1, Errors: []string{"x"}}, "1 imported, 0 updated, 1 error"},
		{payrollimport.ImportResult{Errors: []string{"x", "y"}}, "0 imported, 0 updated, 2 errors"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.result.Summary())
	}
}

func TestHistoryDefaultLimit(t *testing.T) {
	repo := &stubImportRepo{}
	for i := 0; i < 60; i++ {
		repo.history = append(repo.history, payrollimport.HistoryEntry{ID: "e"})
	}
	svc := NewImportService(repo, events.NewHub())

	entries, err := svc.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 50)
}
