package property

import (
	"time"

	"github.com/google/uuid"
)

type Property struct {
	id          uuid.UUID
	hostID      uuid.UUID
	name        Name
	description Description
	location    Location
	nightlyRate NightlyRate
	createdAt   time.Time
	updatedAt   time.Time
}

func NewProperty(hostID uuid.UUID, name Name, description Description, location Location, rate NightlyRate) *Property {
	return &Property{
		id:          uuid.New(),
		hostID:      hostID,
		name:        name,
		description: description,
		location:    location,
		nightlyRate: rate,
	}
}

func ReconstructProperty(
	id, hostID uuid.UUID,
	name Name,
	description Description,
	location Location,
	rate NightlyRate,
	createdAt, updatedAt time.Time,
) *Property {
	return &Property{
		id:          id,
		hostID:      hostID,
		name:        name,
		description: description,
		location:    location,
		nightlyRate: rate,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p *Property) IsOwnedBy(userID uuid.UUID) bool {
	return p.hostID == userID
}

func (p *Property) Rename(name Name)                { p.name = name }
func (p *Property) Describe(d Description)          { p.description = d }
func (p *Property) Relocate(l Location)             { p.location = l }
func (p *Property) ChangeNightlyRate(r NightlyRate) { p.nightlyRate = r }

func (p *Property) ID() uuid.UUID            { return p.id }
func (p *Property) HostID() uuid.UUID        { return p.hostID }
func (p *Property) Name() Name               { return p.name }
func (p *Property) Description() Description { return p.description }
func (p *Property) Location() Location       { return p.location }
func (p *Property) NightlyRate() NightlyRate { return p.nightlyRate }
func (p *Property) CreatedAt() time.Time     { return p.createdAt }
func (p *Property) UpdatedAt() time.Time     { return p.updatedAt }
