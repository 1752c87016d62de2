package repository

import (
	"context"

	"travelnest/internal/domain/review"
	"travelnest/internal/infra"
	"travelnest/internal/infra/db"

	"github.com/google/uuid"
)

type ReviewRepository struct{}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

const createReviewSQL = `
INSERT INTO reviews (id, property_id, booking_id, guest_id, rating, comment)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`

// Create inserts the review; the unique (property_id, guest_id) index rejects
// a second review from the same guest as KindDuplicateKey.
func (r *ReviewRepository) Create(ctx context.Context, tx db.DBTX, rev *review.Review) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createReviewSQL,
		rev.ID(),
		rev.PropertyID(),
		rev.BookingID(),
		rev.GuestID(),
		rev.Rating().Value(),
		rev.Comment().String(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create review", err)
	}

	return id, nil
}
