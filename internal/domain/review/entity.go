package review

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	id         uuid.UUID
	propertyID uuid.UUID
	bookingID  uuid.UUID
	guestID    uuid.UUID
	rating     Rating
	comment    Comment
	createdAt  time.Time
	updatedAt  time.Time
}

func NewReview(services *Services, guestID, propertyID, bookingID uuid.UUID, rating Rating, comment Comment) (*Review, error) {
	now := services.Clock.Now()
	err := services.EligibilityChecker.CanPostReview(EligibilityInput{
		BookingID:  bookingID,
		GuestID:    guestID,
		PropertyID: propertyID,
		Now:        now,
	})
	if err != nil {
		return nil, err
	}

	return &Review{
		id:         uuid.New(),
		propertyID: propertyID,
		bookingID:  bookingID,
		guestID:    guestID,
		rating:     rating,
		comment:    comment,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructReview(id, guestID, propertyID, bookingID uuid.UUID, rating Rating, comment Comment, createdAt, updatedAt time.Time) *Review {
	return &Review{
		id:         id,
		propertyID: propertyID,
		bookingID:  bookingID,
		guestID:    guestID,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (r *Review) ID() uuid.UUID         { return r.id }
func (r *Review) PropertyID() uuid.UUID { return r.propertyID }
func (r *Review) BookingID() uuid.UUID  { return r.bookingID }
func (r *Review) GuestID() uuid.UUID    { return r.guestID }
func (r *Review) Rating() Rating        { return r.rating }
func (r *Review) Comment() Comment      { return r.comment }
func (r *Review) CreatedAt() time.Time  { return r.createdAt }
func (r *Review) UpdatedAt() time.Time  { return r.updatedAt }
