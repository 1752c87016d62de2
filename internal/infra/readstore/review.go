package readstore

import (
	"context"
	"time"

	"travelnest/internal/infra"
	"travelnest/internal/infra/db"
	"travelnest/internal/pkg/pgconv"
	"travelnest/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type ReviewReadStore struct {
	db db.DBTX
}

func NewReviewReadStore(dbtx db.DBTX) *ReviewReadStore {
	return &ReviewReadStore{db: dbtx}
}

const reviewViewSQL = `
SELECT r.id, r.property_id, r.booking_id, r.guest_id,
       u.first_name || ' ' || u.last_name AS guest_name,
       r.rating, r.comment, r.created_at, r.updated_at
FROM reviews r
JOIN users u ON u.id = r.guest_id
WHERE r.id = $1
`

func (r *ReviewReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ReviewView, error) {
	var (
		v         queries.ReviewView
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, reviewViewSQL, id).Scan(
		&v.ID, &v.PropertyID, &v.BookingID, &v.GuestID, &v.GuestName,
		&v.Rating, &v.Comment, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("review not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find review by ID", err)
	}

	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	return &v, nil
}

const reviewListSelectSQL = `
SELECT r.id, u.first_name || ' ' || u.last_name AS guest_name,
       r.rating, r.comment, r.created_at
FROM reviews r
JOIN users u ON u.id = r.guest_id
`

const reviewByPropertyFirstPageSQL = reviewListSelectSQL + `
WHERE r.property_id = $1
ORDER BY r.created_at DESC, r.id DESC
LIMIT $2
`

const reviewByPropertyKeysetSQL = reviewListSelectSQL + `
WHERE r.property_id = $1
  AND (r.created_at, r.id) < ($2, $3)
ORDER BY r.created_at DESC, r.id DESC
LIMIT $4
`

func (r *ReviewReadStore) FindByPropertyFirstPage(ctx context.Context, propertyID uuid.UUID, limit int32) ([]*queries.ReviewListItem, error) {
	rows, err := r.db.Query(ctx, reviewByPropertyFirstPageSQL, propertyID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reviews first page", err)
	}
	return scanReviewListItems(rows)
}

func (r *ReviewReadStore) FindByPropertyKeyset(ctx context.Context, propertyID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.ReviewListItem, error) {
	rows, err := r.db.Query(ctx, reviewByPropertyKeysetSQL, propertyID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reviews keyset", err)
	}
	return scanReviewListItems(rows)
}

const propertyRatingStatsSQL = `
SELECT p.id,
       COALESCE(s.review_count, 0) AS review_count,
       CASE WHEN COALESCE(s.review_count, 0) > 0
            THEN s.rating_sum::float8 / s.review_count
            ELSE 0 END AS average_rating,
       COALESCE(s.updated_at, p.created_at) AS updated_at
FROM properties p
LEFT JOIN property_rating_stats s ON s.property_id = p.id
WHERE p.id = $1
`

func (r *ReviewReadStore) GetPropertyRatingStats(ctx context.Context, propertyID uuid.UUID) (*queries.PropertyRatingStats, error) {
	var (
		stats     queries.PropertyRatingStats
		updatedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, propertyRatingStatsSQL, propertyID).Scan(
		&stats.PropertyID, &stats.ReviewCount, &stats.AverageRating, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("property not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get property rating stats", err)
	}

	stats.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	return &stats, nil
}

func scanReviewListItems(rows pgx.Rows) ([]*queries.ReviewListItem, error) {
	defer rows.Close()

	var result []*queries.ReviewListItem
	for rows.Next() {
		var (
			item      queries.ReviewListItem
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&item.ID, &item.GuestName, &item.Rating, &item.Comment, &createdAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan review row", err)
		}

		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate review rows", err)
	}

	return result, nil
}
