package queries

import (
	"context"
	"time"

	"travelnest/internal/infra"
	"travelnest/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound = errs.New("booking not found")
	ErrBookingAccess   = errs.New("booking access denied")
)

type BookingView struct {
	ID              uuid.UUID `json:"id"`
	PropertyID      uuid.UUID `json:"property_id"`
	PropertyName    string    `json:"property_name"`
	PropertyHostID  uuid.UUID `json:"property_host_id"`
	GuestID         uuid.UUID `json:"guest_id"`
	GuestEmail      string    `json:"guest_email"`
	GuestFirstName  string    `json:"guest_first_name"`
	GuestLastName   string    `json:"guest_last_name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingListItem struct {
	ID              uuid.UUID `json:"id"`
	PropertyID      uuid.UUID `json:"property_id"`
	PropertyName    string    `json:"property_name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByGuestFirstPage(ctx context.Context, guestID uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindByGuestKeyset(ctx context.Context, guestID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindByPropertyFirstPage(ctx context.Context, propertyID uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindByPropertyKeyset(ctx context.Context, propertyID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*BookingView, error)
	ListByGuest(ctx context.Context, guestID, actorID uuid.UUID, actorRole string, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
	ListByProperty(ctx context.Context, propertyID, actorID uuid.UUID, actorRole string, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
}

type bookingQueriesImpl struct {
	store      BookingReadStore
	properties PropertyReadStore
}

func NewBookingQueries(store BookingReadStore, properties PropertyReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store, properties: properties}
}

// GetByID restricts a booking to its guest, the property's host, and admins.
func (q *bookingQueriesImpl) GetByID(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) (*BookingView, error) {
	b, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if actorRole != RoleAdmin && actorID != b.GuestID && actorID != b.PropertyHostID {
		return nil, ErrBookingAccess
	}

	return b, nil
}

func (q *bookingQueriesImpl) ListByGuest(ctx context.Context, guestID, actorID uuid.UUID, actorRole string, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	if actorRole != RoleAdmin && guestID != actorID {
		return nil, nil, ErrBookingAccess
	}

	limit = ValidateLimit(limit)
	var rows []*BookingListItem
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindByGuestFirstPage(ctx, guestID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.store.FindByGuestKeyset(ctx, guestID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	return paginateBookings(rows, limit)
}

func (q *bookingQueriesImpl) ListByProperty(ctx context.Context, propertyID, actorID uuid.UUID, actorRole string, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	prop, err := q.properties.FindByID(ctx, propertyID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil, ErrPropertyNotFound
		}
		return nil, nil, err
	}
	if actorRole != RoleAdmin && prop.HostID != actorID {
		return nil, nil, ErrBookingAccess
	}

	limit = ValidateLimit(limit)
	var rows []*BookingListItem
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindByPropertyFirstPage(ctx, propertyID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.store.FindByPropertyKeyset(ctx, propertyID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	return paginateBookings(rows, limit)
}

func paginateBookings(rows []*BookingListItem, limit int) ([]*BookingListItem, *Cursor, error) {
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
