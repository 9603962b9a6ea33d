package postgresql

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/domain/reporting"
	"github.com/Angel-FulFilment-Services/pulse-reporting-go/internal/pkg/database"
)

type targetRepository struct {
	db *database.DB
}

func NewTargetRepository(db *database.DB) reporting.TargetRepository {
	return &targetRepository{db: db}
}

func (r *targetRepository) TargetsForReport(ctx context.Context, reportID string) ([]reporting.Target, error) {
	query := `
		SELECT column_id, high, low, direction, key_field, sub_targets
		FROM report_targets
		WHERE report_id = $1
		ORDER BY column_id
	`

	rows, err := r.db.Query(ctx, query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to get report targets: %w", err)
	}
	defer rows.Close()

	var targets []reporting.Target
	for rows.Next() {
		var t reporting.Target
		var sub []byte
		if err := rows.Scan(&t.ID, &t.High, &t.Low, &t.Direction, &t.Key, &sub); err != nil {
			return nil, fmt.Errorf("failed to scan report target: %w", err)
		}
		if len(sub) > 0 {
			if err := json.Unmarshal(sub, &t.Sub); err != nil {
				return nil, fmt.Errorf("failed to decode sub targets for %s: %w", t.ID, err)
			}
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// SaveTargets replaces the report's persisted targets in one transaction so
// a partial write never survives.
func (r *targetRepository) SaveTargets(ctx context.Context, reportID string, targets []reporting.Target) error {
	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM report_targets WHERE report_id = $1`, reportID); err != nil {
			return fmt.Errorf("failed to clear report targets: %w", err)
		}

		query := `
			INSERT INTO report_targets (report_id, column_id, high, low, direction, key_field, sub_targets)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		for _, t := range targets {
			var sub []byte
			if len(t.Sub) > 0 {
				encoded, err := json.Marshal(t.Sub)
				if err != nil {
					return fmt.Errorf("failed to encode sub targets for %s: %w", t.ID, err)
				}
				sub = encoded
			}
			if _, err := tx.Exec(ctx, query, reportID, t.ID, t.High, t.Low, t.Direction, t.Key, sub); err != nil {
				return fmt.Errorf("failed to insert target %s: %w", t.ID, err)
			}
		}
		return nil
	})
}
