//go:build unit || e2e

package builder

import (
	"time"

	"travelnest/internal/domain/booking"
	"travelnest/internal/pkg/clock"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
)

// BookingBuilder admits bookings against a fixed clock so "not in the past"
// checks stay deterministic.
type BookingBuilder struct {
	PropertyID       uuid.UUID
	HostID           uuid.UUID
	GuestID          uuid.UUID
	NightlyRateCents int64
	StartDate        time.Time
	EndDate          time.Time
	Now              time.Time
}

func NewBookingBuilder() *BookingBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		PropertyID:       uuid.New(),
		HostID:           uuid.New(),
		GuestID:          uuid.New(),
		NightlyRateCents: 15000,
		StartDate:        now.AddDate(0, 0, 7),
		EndDate:          now.AddDate(0, 0, 10),
		Now:              now,
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	stay, err := booking.NewStayPeriod(b.StartDate, b.EndDate)
	if err != nil {
		return nil, err
	}

	services := &booking.Services{Clock: clock.NewMockClock(b.Now)}
	prop := booking.PropertySpec{
		ID:               b.PropertyID,
		HostID:           b.HostID,
		NightlyRateCents: b.NightlyRateCents,
	}
	return booking.NewBooking(services, prop, b.GuestID, stay)
}

func (b *BookingBuilder) BuildSnapshot(status string, totalPriceCents int64) *shared.BookingSnapshot {
	return &shared.BookingSnapshot{
		ID:              uuid.New(),
		PropertyID:      b.PropertyID,
		GuestID:         b.GuestID,
		Status:          status,
		StartDate:       truncate(b.StartDate),
		EndDate:         truncate(b.EndDate),
		TotalPriceCents: totalPriceCents,
		GuestEmail:      "guest@example.com",
		GuestFirstName:  "Test",
		GuestLastName:   "Guest",
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithStay(start, end time.Time) *BookingBuilder {
	b.StartDate = start
	b.EndDate = end
	return b
}

func (b *BookingBuilder) WithGuest(guestID uuid.UUID) *BookingBuilder {
	b.GuestID = guestID
	return b
}

func (b *BookingBuilder) WithHost(hostID uuid.UUID) *BookingBuilder {
	b.HostID = hostID
	return b
}

func (b *BookingBuilder) WithNightlyRate(cents int64) *BookingBuilder {
	b.NightlyRateCents = cents
	return b
}

func (b *BookingBuilder) AsSelfBooking() *BookingBuilder {
	b.HostID = b.GuestID
	return b
}

func truncate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
