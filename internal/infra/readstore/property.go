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

type PropertyReadStore struct {
	db db.DBTX
}

func NewPropertyReadStore(dbtx db.DBTX) *PropertyReadStore {
	return &PropertyReadStore{db: dbtx}
}

const propertyViewSQL = `
SELECT p.id, p.host_id, p.name, p.description, p.location, p.nightly_rate_cents,
       CASE WHEN COALESCE(s.review_count, 0) > 0 THEN s.rating_sum::float8 / s.review_count END AS average_rating,
       COALESCE(s.review_count, 0) AS review_count,
       p.created_at, p.updated_at
FROM properties p
LEFT JOIN property_rating_stats s ON s.property_id = p.id
WHERE p.id = $1
`

func (r *PropertyReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PropertyView, error) {
	var (
		v         queries.PropertyView
		avgRating pgtype.Float8
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, propertyViewSQL, id).Scan(
		&v.ID, &v.HostID, &v.Name, &v.Description, &v.Location, &v.NightlyRateCents,
		&avgRating, &v.ReviewCount, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("property not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find property by ID", err)
	}

	avg, err := pgconv.Float64PtrFromPgtype(avgRating)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read property rating", err)
	}
	v.AverageRating = avg
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	return &v, nil
}

const propertyListSelectSQL = `
SELECT p.id, p.host_id, p.name, p.location, p.nightly_rate_cents,
       CASE WHEN COALESCE(s.review_count, 0) > 0 THEN s.rating_sum::float8 / s.review_count END AS average_rating,
       COALESCE(s.review_count, 0) AS review_count,
       p.created_at
FROM properties p
LEFT JOIN property_rating_stats s ON s.property_id = p.id
`

const propertyFirstPageSQL = propertyListSelectSQL + `
WHERE ($1::text IS NULL OR p.location ILIKE '%' || $1 || '%')
ORDER BY p.created_at DESC, p.id DESC
LIMIT $2
`

const propertyKeysetSQL = propertyListSelectSQL + `
WHERE ($1::text IS NULL OR p.location ILIKE '%' || $1 || '%')
  AND (p.created_at, p.id) < ($2, $3)
ORDER BY p.created_at DESC, p.id DESC
LIMIT $4
`

const propertyByHostFirstPageSQL = propertyListSelectSQL + `
WHERE p.host_id = $1
ORDER BY p.created_at DESC, p.id DESC
LIMIT $2
`

const propertyByHostKeysetSQL = propertyListSelectSQL + `
WHERE p.host_id = $1
  AND (p.created_at, p.id) < ($2, $3)
ORDER BY p.created_at DESC, p.id DESC
LIMIT $4
`

func (r *PropertyReadStore) FindFirstPage(ctx context.Context, filters queries.PropertyFilters, limit int32) ([]*queries.PropertyListItem, error) {
	rows, err := r.db.Query(ctx, propertyFirstPageSQL, pgconv.StringPtrToPgtype(filters.Location), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find properties first page", err)
	}
	return scanPropertyListItems(rows)
}

func (r *PropertyReadStore) FindKeyset(ctx context.Context, filters queries.PropertyFilters, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.PropertyListItem, error) {
	rows, err := r.db.Query(ctx, propertyKeysetSQL,
		pgconv.StringPtrToPgtype(filters.Location),
		pgconv.TimeToPgtype(lastCreatedAt), lastID, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find properties keyset", err)
	}
	return scanPropertyListItems(rows)
}

func (r *PropertyReadStore) FindByHostFirstPage(ctx context.Context, hostID uuid.UUID, limit int32) ([]*queries.PropertyListItem, error) {
	rows, err := r.db.Query(ctx, propertyByHostFirstPageSQL, hostID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find host properties first page", err)
	}
	return scanPropertyListItems(rows)
}

func (r *PropertyReadStore) FindByHostKeyset(ctx context.Context, hostID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.PropertyListItem, error) {
	rows, err := r.db.Query(ctx, propertyByHostKeysetSQL, hostID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find host properties keyset", err)
	}
	return scanPropertyListItems(rows)
}

func scanPropertyListItems(rows pgx.Rows) ([]*queries.PropertyListItem, error) {
	defer rows.Close()

	var result []*queries.PropertyListItem
	for rows.Next() {
		var (
			item      queries.PropertyListItem
			avgRating pgtype.Float8
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.HostID, &item.Name, &item.Location, &item.NightlyRateCents,
			&avgRating, &item.ReviewCount, &createdAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan property row", err)
		}

		avg, err := pgconv.Float64PtrFromPgtype(avgRating)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to read property rating", err)
		}
		item.AverageRating = avg
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate property rows", err)
	}

	return result, nil
}
