package response

import (
	"time"

	"travelnest/internal/usecase/queries"

	"github.com/google/uuid"
)

const stayDateLayout = "2006-01-02"

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	PropertyID      uuid.UUID `json:"property_id"`
	PropertyName    string    `json:"property_name"`
	GuestID         uuid.UUID `json:"guest_id"`
	GuestEmail      string    `json:"guest_email"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type BookingListItemResponse struct {
	ID              uuid.UUID `json:"id"`
	PropertyID      uuid.UUID `json:"property_id"`
	PropertyName    string    `json:"property_name"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
}

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor *string                    `json:"next_cursor,omitempty"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	return &BookingResponse{
		ID:              v.ID,
		PropertyID:      v.PropertyID,
		PropertyName:    v.PropertyName,
		GuestID:         v.GuestID,
		GuestEmail:      v.GuestEmail,
		StartDate:       v.StartDate.Format(stayDateLayout),
		EndDate:         v.EndDate.Format(stayDateLayout),
		Status:          v.Status,
		TotalPriceCents: v.TotalPriceCents,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) *BookingListResponse {
	res := &BookingListResponse{
		Items:      make([]*BookingListItemResponse, len(items)),
		NextCursor: cursorString(next),
	}
	for i, it := range items {
		res.Items[i] = &BookingListItemResponse{
			ID:              it.ID,
			PropertyID:      it.PropertyID,
			PropertyName:    it.PropertyName,
			StartDate:       it.StartDate.Format(stayDateLayout),
			EndDate:         it.EndDate.Format(stayDateLayout),
			Status:          it.Status,
			TotalPriceCents: it.TotalPriceCents,
			CreatedAt:       it.CreatedAt,
		}
	}
	return res
}
