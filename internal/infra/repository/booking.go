package repository

import (
	"context"
	"errors"

	"travelnest/internal/domain/booking"
	"travelnest/internal/infra"
	"travelnest/internal/infra/db"
	"travelnest/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type BookingRepository struct{}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

// Source statuses a guarded status UPDATE accepts, per target. Mirrors the
// domain transition table so a concurrent writer cannot slip a row past it
// between a snapshot read and the UPDATE under ReadCommitted.
var bookingStatusSources = map[booking.Status][]string{
	booking.StatusConfirmed: {booking.StatusPending.String()},
	booking.StatusCanceled:  {booking.StatusPending.String(), booking.StatusConfirmed.String()},
}

const createBookingSQL = `
INSERT INTO bookings (id, property_id, guest_id, start_date, end_date, status, total_price_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`

// Create inserts the booking and lets the availability exclusion constraint
// reject overlapping stays. An exclusion violation surfaces as KindConflict.
func (r *BookingRepository) Create(ctx context.Context, tx db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createBookingSQL,
		b.ID(),
		b.PropertyID(),
		b.GuestID(),
		pgconv.DateToPgtype(b.Stay().Start()),
		pgconv.DateToPgtype(b.Stay().End()),
		b.Status().String(),
		b.TotalPrice().Cents(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

const updateBookingStaySQL = `
UPDATE bookings
SET start_date = $2, end_date = $3, total_price_cents = $4, updated_at = now()
WHERE id = $1 AND status = 'pending'
`

// UpdateStay reschedules a pending booking. The status predicate keeps a
// rescheduling transaction from touching a booking another transaction has
// just confirmed or canceled.
func (r *BookingRepository) UpdateStay(ctx context.Context, tx db.DBTX, b *booking.Booking) error {
	tag, err := tx.Exec(ctx, updateBookingStaySQL,
		b.ID(),
		pgconv.DateToPgtype(b.Stay().Start()),
		pgconv.DateToPgtype(b.Stay().End()),
		b.TotalPrice().Cents(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking stay", err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveGuardedMiss(ctx, tx, b.ID())
	}

	return nil
}

const updateBookingStatusSQL = `
UPDATE bookings
SET status = $2, updated_at = now()
WHERE id = $1 AND status = ANY($3)
`

// UpdateStatus applies a transition with its valid source statuses as a SQL
// predicate. Zero rows on an existing booking means the row is no longer in a
// source status the transition allows.
func (r *BookingRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status booking.Status) error {
	sources, ok := bookingStatusSources[status]
	if !ok {
		return infra.WrapRepoErr("no transition targets status "+status.String(), nil, infra.KindPreconditionFailed)
	}

	tag, err := tx.Exec(ctx, updateBookingStatusSQL, id, status.String(), sources)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveGuardedMiss(ctx, tx, id)
	}

	return nil
}

const selectBookingStatusSQL = `
SELECT status FROM bookings WHERE id = $1
`

func (r *BookingRepository) resolveGuardedMiss(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	var current string
	err := tx.QueryRow(ctx, selectBookingStatusSQL, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	if err != nil {
		return infra.WrapRepoErr("failed to read booking status", err)
	}

	return infra.WrapRepoErr("booking is "+current, nil, infra.KindPreconditionFailed)
}
