package review

import (
	"time"

	"travelnest/internal/pkg/clock"

	"github.com/google/uuid"
)

type Services struct {
	Clock              clock.Clock
	EligibilityChecker EligibilityChecker
}

type EligibilityInput struct {
	BookingID  uuid.UUID
	GuestID    uuid.UUID
	PropertyID uuid.UUID
	Now        time.Time
}

// EligibilityChecker verifies the reviewer holds a confirmed booking for
// the property whose stay has already ended.
type EligibilityChecker interface {
	CanPostReview(input EligibilityInput) error
}
