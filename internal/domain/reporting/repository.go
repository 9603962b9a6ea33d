package reporting

import (
	"context"
	"time"
)

// RowRepository supplies the raw report rows for a schema and date range.
type RowRepository interface {
	RowsForReport(ctx context.Context, reportID string, start, end time.Time) ([]Row, error)
}

// TargetRepository persists edited target thresholds per report.
type TargetRepository interface {
	TargetsForReport(ctx context.Context, reportID string) ([]Target, error)
	SaveTargets(ctx context.Context, reportID string, targets []Target) error
}
