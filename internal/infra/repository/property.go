package repository

import (
	"context"

	"travelnest/internal/domain/property"
	"travelnest/internal/infra"
	"travelnest/internal/infra/db"

	"github.com/google/uuid"
)

type PropertyRepository struct{}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{}
}

const createPropertySQL = `
INSERT INTO properties (id, host_id, name, description, location, nightly_rate_cents)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`

func (r *PropertyRepository) Create(ctx context.Context, tx db.DBTX, p *property.Property) (uuid.UUID, error) {
	var id uuid.UUID
	err := tx.QueryRow(ctx, createPropertySQL,
		p.ID(),
		p.HostID(),
		p.Name().String(),
		p.Description().String(),
		p.Location().String(),
		p.NightlyRate().Cents(),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create property", err)
	}

	return id, nil
}

const updatePropertySQL = `
UPDATE properties
SET name = $2, description = $3, location = $4, nightly_rate_cents = $5, updated_at = now()
WHERE id = $1
`

func (r *PropertyRepository) Update(ctx context.Context, tx db.DBTX, p *property.Property) error {
	tag, err := tx.Exec(ctx, updatePropertySQL,
		p.ID(),
		p.Name().String(),
		p.Description().String(),
		p.Location().String(),
		p.NightlyRate().Cents(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update property", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}

	return nil
}

const deletePropertySQL = `DELETE FROM properties WHERE id = $1`

func (r *PropertyRepository) Delete(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, deletePropertySQL, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete property", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("property not found", nil, infra.KindNotFound)
	}

	return nil
}
