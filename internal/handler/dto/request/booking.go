package request

import (
	"fmt"
	"time"

	"travelnest/internal/usecase/commands"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type CreateBookingRequest struct {
	PropertyID uuid.UUID `json:"property_id" binding:"required"`
	StartDate  string    `json:"start_date" binding:"required"`
	EndDate    string    `json:"end_date" binding:"required"`
}

type UpdateBookingDatesRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

func (r *CreateBookingRequest) ToCommand() (commands.CreateBookingRequest, error) {
	start, end, err := parseStayDates(r.StartDate, r.EndDate)
	if err != nil {
		return commands.CreateBookingRequest{}, err
	}
	return commands.CreateBookingRequest{
		PropertyID: r.PropertyID,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

func (r *UpdateBookingDatesRequest) ToCommand() (commands.UpdateBookingDatesRequest, error) {
	start, end, err := parseStayDates(r.StartDate, r.EndDate)
	if err != nil {
		return commands.UpdateBookingDatesRequest{}, err
	}
	return commands.UpdateBookingDatesRequest{
		StartDate: start,
		EndDate:   end,
	}, nil
}

// Stay dates are calendar dates without a time component. Anything beyond
// YYYY-MM-DD is rejected rather than silently truncated.
func parseStayDates(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, startStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.ParseInLocation(dateLayout, endStr, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end_date: %w", err)
	}
	return start, end, nil
}
