package booking

import (
	"errors"
	"time"

	"travelnest/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrSelfBooking       = errors.New("host cannot book own property")
	ErrInvalidTransition = errors.New("invalid booking status transition")
	ErrNotPending        = errors.New("booking is not pending")
	ErrNegativePrice     = errors.New("total price cannot be negative")
)

// PropertySpec carries the slice of property state booking admission needs.
type PropertySpec struct {
	ID               uuid.UUID
	HostID           uuid.UUID
	NightlyRateCents int64
}

type Services struct {
	Clock clock.Clock
}

type Booking struct {
	id         uuid.UUID
	propertyID uuid.UUID
	guestID    uuid.UUID
	stay       StayPeriod
	status     Status
	totalPrice Money
	createdAt  time.Time
	updatedAt  time.Time
}

// NewBooking admits a pending booking. The total price is nightly rate times
// nights, frozen here; later property price changes never touch it.
func NewBooking(services *Services, prop PropertySpec, guestID uuid.UUID, stay StayPeriod) (*Booking, error) {
	if prop.HostID == guestID {
		return nil, ErrSelfBooking
	}
	if err := stay.ValidateNotPast(services.Clock.Now()); err != nil {
		return nil, err
	}

	total := prop.NightlyRateCents * stay.Nights()
	if total < 0 {
		return nil, ErrNegativePrice
	}

	return &Booking{
		id:         uuid.New(),
		propertyID: prop.ID,
		guestID:    guestID,
		stay:       stay,
		status:     StatusPending,
		totalPrice: NewMoney(total),
	}, nil
}

func ReconstructBooking(
	id, propertyID, guestID uuid.UUID,
	stay StayPeriod,
	status Status,
	totalPrice Money,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		propertyID: propertyID,
		guestID:    guestID,
		stay:       stay,
		status:     status,
		totalPrice: totalPrice,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// Confirm moves pending to confirmed. Only payment reconciliation calls this.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return ErrInvalidTransition
	}
	b.status = StatusConfirmed
	return nil
}

// Cancel is strict: canceling an already-canceled booking is an error,
// not a no-op.
func (b *Booking) Cancel() error {
	if !b.status.CanTransitionTo(StatusCanceled) {
		return ErrInvalidTransition
	}
	b.status = StatusCanceled
	return nil
}

// Reschedule replaces the stay on a pending booking and reprices it with
// the property's current nightly rate.
func (b *Booking) Reschedule(stay StayPeriod, nightlyRateCents int64, now time.Time) error {
	if b.status != StatusPending {
		return ErrNotPending
	}
	if err := stay.ValidateNotPast(now); err != nil {
		return err
	}
	total := nightlyRateCents * stay.Nights()
	if total < 0 {
		return ErrNegativePrice
	}
	b.stay = stay
	b.totalPrice = NewMoney(total)
	return nil
}

func (b *Booking) IsPending() bool   { return b.status == StatusPending }
func (b *Booking) IsConfirmed() bool { return b.status == StatusConfirmed }
func (b *Booking) IsCanceled() bool  { return b.status == StatusCanceled }

func (b *Booking) HasEnded(now time.Time) bool {
	return b.stay.EndedBy(now)
}

func (b *Booking) ID() uuid.UUID         { return b.id }
func (b *Booking) PropertyID() uuid.UUID { return b.propertyID }
func (b *Booking) GuestID() uuid.UUID    { return b.guestID }
func (b *Booking) Stay() StayPeriod      { return b.stay }
func (b *Booking) Status() Status        { return b.status }
func (b *Booking) TotalPrice() Money     { return b.totalPrice }
func (b *Booking) CreatedAt() time.Time  { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time  { return b.updatedAt }
