//go:build unit || e2e

package builder

import (
	"travelnest/internal/domain/property"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
)

type PropertyBuilder struct {
	HostID           uuid.UUID
	Name             string
	Description      string
	Location         string
	NightlyRateCents int64
}

func NewPropertyBuilder() *PropertyBuilder {
	return &PropertyBuilder{
		HostID:           uuid.New(),
		Name:             "Lakeside Cottage",
		Description:      "Two bedrooms with a view of the lake",
		Location:         "Bahir Dar",
		NightlyRateCents: 15000,
	}
}

func (p *PropertyBuilder) With(mutate func(*PropertyBuilder)) *PropertyBuilder {
	mutate(p)
	return p
}

func (p *PropertyBuilder) BuildDomain() (*property.Property, error) {
	name, err := property.NewName(p.Name)
	if err != nil {
		return nil, err
	}
	description, err := property.NewDescription(p.Description)
	if err != nil {
		return nil, err
	}
	location, err := property.NewLocation(p.Location)
	if err != nil {
		return nil, err
	}
	rate, err := property.NewNightlyRate(p.NightlyRateCents)
	if err != nil {
		return nil, err
	}
	return property.NewProperty(p.HostID, name, description, location, rate), nil
}

func (p *PropertyBuilder) BuildSnapshot() *shared.PropertySnapshot {
	return &shared.PropertySnapshot{
		ID:               uuid.New(),
		HostID:           p.HostID,
		Name:             p.Name,
		NightlyRateCents: p.NightlyRateCents,
	}
}

// Fluent builder methods
func (p *PropertyBuilder) WithName(name string) *PropertyBuilder {
	p.Name = name
	return p
}

func (p *PropertyBuilder) WithLocation(location string) *PropertyBuilder {
	p.Location = location
	return p
}

func (p *PropertyBuilder) WithNightlyRate(cents int64) *PropertyBuilder {
	p.NightlyRateCents = cents
	return p
}

func (p *PropertyBuilder) WithHost(hostID uuid.UUID) *PropertyBuilder {
	p.HostID = hostID
	return p
}
