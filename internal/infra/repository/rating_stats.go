package repository

import (
	"context"

	"travelnest/internal/infra"
	"travelnest/internal/infra/db"

	"github.com/google/uuid"
)

type RatingStatsRepository struct{}

func NewRatingStatsRepository() *RatingStatsRepository {
	return &RatingStatsRepository{}
}

const recalcPropertyRatingStatsSQL = `
INSERT INTO property_rating_stats (property_id, review_count, rating_sum, updated_at)
SELECT $1, COUNT(*), COALESCE(SUM(rating), 0), now()
FROM reviews
WHERE property_id = $1
ON CONFLICT (property_id) DO UPDATE
SET review_count = EXCLUDED.review_count,
    rating_sum   = EXCLUDED.rating_sum,
    updated_at   = now()
`

// RecalcPropertyRatingStats recomputes the aggregate from the reviews table
// inside the caller's transaction, so stats never drift from the source rows.
func (r *RatingStatsRepository) RecalcPropertyRatingStats(ctx context.Context, tx db.DBTX, propertyID uuid.UUID) error {
	if _, err := tx.Exec(ctx, recalcPropertyRatingStatsSQL, propertyID); err != nil {
		return infra.WrapRepoErr("failed to recalc property rating stats", err)
	}
	return nil
}
