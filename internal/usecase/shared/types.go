package shared

import (
	"time"

	"github.com/google/uuid"
)

// Snapshots are minimal read views used by command usecases for validation.
// They are fetched through CommandReads, not the query-side readstores.

type PropertySnapshot struct {
	ID               uuid.UUID
	HostID           uuid.UUID
	Name             string
	NightlyRateCents int64
}

type BookingSnapshot struct {
	ID              uuid.UUID
	PropertyID      uuid.UUID
	GuestID         uuid.UUID
	Status          string
	StartDate       time.Time
	EndDate         time.Time
	TotalPriceCents int64
	GuestEmail      string
	GuestFirstName  string
	GuestLastName   string
}

type PaymentSnapshot struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	Status      string
	AmountCents int64
	TxRef       string
	CheckoutURL string
}
