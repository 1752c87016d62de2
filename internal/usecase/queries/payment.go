package queries

import (
	"context"
	"time"

	"travelnest/internal/infra"
	"travelnest/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound = errs.New("payment not found")
	ErrPaymentAccess   = errs.New("payment access denied")
)

type PaymentView struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	TxRef       string    `json:"tx_ref"`
	CheckoutURL string    `json:"checkout_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PaymentReadStore interface {
	FindLatestByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error)
	FindActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentView, error)
	FindByTxRef(ctx context.Context, txRef string) (*PaymentView, error)
}

type PaymentQueries interface {
	GetByBookingID(ctx context.Context, actorID uuid.UUID, actorRole string, bookingID uuid.UUID) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	store    PaymentReadStore
	bookings BookingReadStore
}

func NewPaymentQueries(store PaymentReadStore, bookings BookingReadStore) PaymentQueries {
	return &paymentQueriesImpl{store: store, bookings: bookings}
}

// GetByBookingID restricts payment state to the booking's guest and admins.
func (q *paymentQueriesImpl) GetByBookingID(ctx context.Context, actorID uuid.UUID, actorRole string, bookingID uuid.UUID) (*PaymentView, error) {
	b, err := q.bookings.FindByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if actorRole != RoleAdmin && b.GuestID != actorID {
		return nil, ErrPaymentAccess
	}

	p, err := q.store.FindLatestByBookingID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}
