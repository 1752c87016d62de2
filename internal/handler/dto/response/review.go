package response

import (
	"time"

	"travelnest/internal/usecase/queries"

	"github.com/google/uuid"
)

type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	BookingID  uuid.UUID `json:"booking_id"`
	GuestID    uuid.UUID `json:"guest_id"`
	GuestName  string    `json:"guest_name"`
	Rating     int32     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ReviewListItemResponse struct {
	ID        uuid.UUID `json:"id"`
	GuestName string    `json:"guest_name"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewListResponse struct {
	Items      []*ReviewListItemResponse `json:"items"`
	NextCursor *string                   `json:"next_cursor,omitempty"`
}

type PropertyRatingStatsResponse struct {
	PropertyID    uuid.UUID `json:"property_id"`
	ReviewCount   int32     `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromReviewView(v *queries.ReviewView) *ReviewResponse {
	return &ReviewResponse{
		ID:         v.ID,
		PropertyID: v.PropertyID,
		BookingID:  v.BookingID,
		GuestID:    v.GuestID,
		GuestName:  v.GuestName,
		Rating:     v.Rating,
		Comment:    v.Comment,
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}

func FromReviewList(items []*queries.ReviewListItem, next *queries.Cursor) *ReviewListResponse {
	res := &ReviewListResponse{
		Items:      make([]*ReviewListItemResponse, len(items)),
		NextCursor: cursorString(next),
	}
	for i, it := range items {
		res.Items[i] = &ReviewListItemResponse{
			ID:        it.ID,
			GuestName: it.GuestName,
			Rating:    it.Rating,
			Comment:   it.Comment,
			CreatedAt: it.CreatedAt,
		}
	}
	return res
}

func FromPropertyRatingStats(s *queries.PropertyRatingStats) *PropertyRatingStatsResponse {
	return &PropertyRatingStatsResponse{
		PropertyID:    s.PropertyID,
		ReviewCount:   s.ReviewCount,
		AverageRating: s.AverageRating,
		UpdatedAt:     s.UpdatedAt,
	}
}
