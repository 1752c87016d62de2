//go:build unit || e2e

package builder

import (
	"time"

	"travelnest/internal/domain/review"
	"travelnest/internal/pkg/clock"

	"github.com/google/uuid"
)

type ReviewBuilder struct {
	GuestID    uuid.UUID
	PropertyID uuid.UUID
	BookingID  uuid.UUID
	Rating     int
	Comment    string
	Now        time.Time
	Checker    review.EligibilityChecker
}

// allowAllChecker keeps value-object validation tests independent of
// booking state.
type allowAllChecker struct{}

func (allowAllChecker) CanPostReview(review.EligibilityInput) error { return nil }

type denyAllChecker struct{ err error }

func (c denyAllChecker) CanPostReview(review.EligibilityInput) error { return c.err }

func NewReviewBuilder() *ReviewBuilder {
	return &ReviewBuilder{
		GuestID:    uuid.New(),
		PropertyID: uuid.New(),
		BookingID:  uuid.New(),
		Rating:     5,
		Comment:    "Excellent stay!",
		Now:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Checker:    allowAllChecker{},
	}
}

func (r *ReviewBuilder) With(mutate func(*ReviewBuilder)) *ReviewBuilder {
	mutate(r)
	return r
}

func (r *ReviewBuilder) BuildDomain() (*review.Review, error) {
	rating, err := review.NewRating(r.Rating)
	if err != nil {
		return nil, err
	}
	comment, err := review.NewComment(r.Comment)
	if err != nil {
		return nil, err
	}

	services := &review.Services{
		Clock:              clock.NewMockClock(r.Now),
		EligibilityChecker: r.Checker,
	}
	return review.NewReview(services, r.GuestID, r.PropertyID, r.BookingID, rating, comment)
}

// Fluent builder methods
func (r *ReviewBuilder) WithRating(rating int) *ReviewBuilder {
	r.Rating = rating
	return r
}

func (r *ReviewBuilder) WithComment(comment string) *ReviewBuilder {
	r.Comment = comment
	return r
}

func (r *ReviewBuilder) WithIneligibleBooking(err error) *ReviewBuilder {
	r.Checker = denyAllChecker{err: err}
	return r
}
