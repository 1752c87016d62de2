package request

import (
	"travelnest/internal/usecase/commands"
)

type PropertyRequest struct {
	Name             string `json:"name" binding:"required,max=200"`
	Description      string `json:"description" binding:"max=2000"`
	Location         string `json:"location" binding:"required,max=200"`
	NightlyRateCents int64  `json:"nightly_rate_cents" binding:"required,gt=0"`
}

func (r *PropertyRequest) ToCommand() commands.PropertyRequest {
	return commands.PropertyRequest{
		Name:             r.Name,
		Description:      r.Description,
		Location:         r.Location,
		NightlyRateCents: r.NightlyRateCents,
	}
}
