package response

import (
	"time"

	"travelnest/internal/usecase/queries"

	"github.com/google/uuid"
)

type PropertyResponse struct {
	ID               uuid.UUID `json:"id"`
	HostID           uuid.UUID `json:"host_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	AverageRating    *float64  `json:"average_rating,omitempty"`
	ReviewCount      int32     `json:"review_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type PropertyListItemResponse struct {
	ID               uuid.UUID `json:"id"`
	HostID           uuid.UUID `json:"host_id"`
	Name             string    `json:"name"`
	Location         string    `json:"location"`
	NightlyRateCents int64     `json:"nightly_rate_cents"`
	AverageRating    *float64  `json:"average_rating,omitempty"`
	ReviewCount      int32     `json:"review_count"`
	CreatedAt        time.Time `json:"created_at"`
}

type PropertyListResponse struct {
	Items      []*PropertyListItemResponse `json:"items"`
	NextCursor *string                     `json:"next_cursor,omitempty"`
}

func FromPropertyView(v *queries.PropertyView) *PropertyResponse {
	return &PropertyResponse{
		ID:               v.ID,
		HostID:           v.HostID,
		Name:             v.Name,
		Description:      v.Description,
		Location:         v.Location,
		NightlyRateCents: v.NightlyRateCents,
		AverageRating:    v.AverageRating,
		ReviewCount:      v.ReviewCount,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

func FromPropertyList(items []*queries.PropertyListItem, next *queries.Cursor) *PropertyListResponse {
	res := &PropertyListResponse{
		Items:      make([]*PropertyListItemResponse, len(items)),
		NextCursor: cursorString(next),
	}
	for i, it := range items {
		res.Items[i] = &PropertyListItemResponse{
			ID:               it.ID,
			HostID:           it.HostID,
			Name:             it.Name,
			Location:         it.Location,
			NightlyRateCents: it.NightlyRateCents,
			AverageRating:    it.AverageRating,
			ReviewCount:      it.ReviewCount,
			CreatedAt:        it.CreatedAt,
		}
	}
	return res
}

func cursorString(c *queries.Cursor) *string {
	if c == nil || c.After == "" {
		return nil
	}
	after := c.After
	return &after
}
