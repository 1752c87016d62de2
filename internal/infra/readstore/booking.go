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

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

const bookingViewSQL = `
SELECT b.id, b.property_id, p.name AS property_name, p.host_id,
       b.guest_id, u.email, u.first_name, u.last_name,
       b.start_date, b.end_date, b.status, b.total_price_cents,
       b.created_at, b.updated_at
FROM bookings b
JOIN properties p ON p.id = b.property_id
JOIN users u ON u.id = b.guest_id
WHERE b.id = $1
`

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		v         queries.BookingView
		startDate pgtype.Date
		endDate   pgtype.Date
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, bookingViewSQL, id).Scan(
		&v.ID, &v.PropertyID, &v.PropertyName, &v.PropertyHostID,
		&v.GuestID, &v.GuestEmail, &v.GuestFirstName, &v.GuestLastName,
		&startDate, &endDate, &v.Status, &v.TotalPriceCents,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	v.StartDate = pgconv.DateFromPgtype(startDate)
	v.EndDate = pgconv.DateFromPgtype(endDate)
	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	return &v, nil
}

const bookingListSelectSQL = `
SELECT b.id, b.property_id, p.name AS property_name,
       b.start_date, b.end_date, b.status, b.total_price_cents, b.created_at
FROM bookings b
JOIN properties p ON p.id = b.property_id
`

const bookingByGuestFirstPageSQL = bookingListSelectSQL + `
WHERE b.guest_id = $1
ORDER BY b.created_at DESC, b.id DESC
LIMIT $2
`

const bookingByGuestKeysetSQL = bookingListSelectSQL + `
WHERE b.guest_id = $1
  AND (b.created_at, b.id) < ($2, $3)
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4
`

const bookingByPropertyFirstPageSQL = bookingListSelectSQL + `
WHERE b.property_id = $1
ORDER BY b.created_at DESC, b.id DESC
LIMIT $2
`

const bookingByPropertyKeysetSQL = bookingListSelectSQL + `
WHERE b.property_id = $1
  AND (b.created_at, b.id) < ($2, $3)
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4
`

func (r *BookingReadStore) FindByGuestFirstPage(ctx context.Context, guestID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, bookingByGuestFirstPageSQL, guestID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find guest bookings first page", err)
	}
	return scanBookingListItems(rows)
}

func (r *BookingReadStore) FindByGuestKeyset(ctx context.Context, guestID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, bookingByGuestKeysetSQL, guestID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find guest bookings keyset", err)
	}
	return scanBookingListItems(rows)
}

func (r *BookingReadStore) FindByPropertyFirstPage(ctx context.Context, propertyID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, bookingByPropertyFirstPageSQL, propertyID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find property bookings first page", err)
	}
	return scanBookingListItems(rows)
}

func (r *BookingReadStore) FindByPropertyKeyset(ctx context.Context, propertyID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.db.Query(ctx, bookingByPropertyKeysetSQL, propertyID, pgconv.TimeToPgtype(lastCreatedAt), lastID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find property bookings keyset", err)
	}
	return scanBookingListItems(rows)
}

func scanBookingListItems(rows pgx.Rows) ([]*queries.BookingListItem, error) {
	defer rows.Close()

	var result []*queries.BookingListItem
	for rows.Next() {
		var (
			item      queries.BookingListItem
			startDate pgtype.Date
			endDate   pgtype.Date
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(
			&item.ID, &item.PropertyID, &item.PropertyName,
			&startDate, &endDate, &item.Status, &item.TotalPriceCents, &createdAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}

		item.StartDate = pgconv.DateFromPgtype(startDate)
		item.EndDate = pgconv.DateFromPgtype(endDate)
		item.CreatedAt = pgconv.TimeFromPgtype(createdAt)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate booking rows", err)
	}

	return result, nil
}
