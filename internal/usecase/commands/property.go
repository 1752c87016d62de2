package commands

import (
	"context"

	"travelnest/internal/domain/property"
	"travelnest/internal/infra"
	"travelnest/internal/pkg/clock"
	"travelnest/internal/pkg/errs"
	"travelnest/internal/usecase/queries"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPropertyValidation = errs.New("property validation error")
	ErrPropertyNotOwned   = errs.New("property not owned by user")
	ErrPropertyInUse      = errs.New("property has bookings and cannot be deleted")
)

type PropertyRequest struct {
	Name             string
	Description      string
	Location         string
	NightlyRateCents int64
}

type CreatePropertyResult struct {
	PropertyID uuid.UUID
}

type PropertyCommands interface {
	CreateProperty(ctx context.Context, req PropertyRequest, hostID uuid.UUID) (*CreatePropertyResult, error)
	UpdateProperty(ctx context.Context, propertyID uuid.UUID, req PropertyRequest, actorID uuid.UUID, actorRole string) error
	DeleteProperty(ctx context.Context, propertyID uuid.UUID, actorID uuid.UUID, actorRole string) error
}

type propertyUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewPropertyUseCase(uow shared.UnitOfWork, clk clock.Clock) PropertyCommands {
	return &propertyUseCaseImpl{uow: uow, clock: clk}
}

func (uc *propertyUseCaseImpl) CreateProperty(ctx context.Context, req PropertyRequest, hostID uuid.UUID) (*CreatePropertyResult, error) {
	name, description, location, rate, err := propertyValues(req)
	if err != nil {
		return nil, err
	}

	prop := property.NewProperty(hostID, name, description, location, rate)

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, derr := tx.Properties().Create(ctx, tx.DB(), prop)
		if derr != nil {
			return derr
		}
		createdID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &CreatePropertyResult{PropertyID: createdID}, nil
}

// UpdateProperty replaces all mutable fields. A changed nightly rate affects
// future bookings only; existing bookings keep their frozen total.
func (uc *propertyUseCaseImpl) UpdateProperty(ctx context.Context, propertyID uuid.UUID, req PropertyRequest, actorID uuid.UUID, actorRole string) error {
	name, description, location, rate, err := propertyValues(req)
	if err != nil {
		return err
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().PropertyByID(ctx, propertyID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrPropertyNotFound
			}
			return derr
		}
		if actorRole != queries.RoleAdmin && snap.HostID != actorID {
			return ErrPropertyNotOwned
		}

		now := uc.clock.Now()
		prop := property.ReconstructProperty(propertyID, snap.HostID, name, description, location, rate, now, now)
		return tx.Properties().Update(ctx, tx.DB(), prop)
	})
}

func (uc *propertyUseCaseImpl) DeleteProperty(ctx context.Context, propertyID uuid.UUID, actorID uuid.UUID, actorRole string) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().PropertyByID(ctx, propertyID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrPropertyNotFound
			}
			return derr
		}
		if actorRole != queries.RoleAdmin && snap.HostID != actorID {
			return ErrPropertyNotOwned
		}

		if derr = tx.Properties().Delete(ctx, tx.DB(), propertyID); derr != nil {
			if infra.IsKind(derr, infra.KindForeignKeyViolated) {
				return ErrPropertyInUse
			}
			return derr
		}
		return nil
	})
}

func propertyValues(req PropertyRequest) (property.Name, property.Description, property.Location, property.NightlyRate, error) {
	name, err := property.NewName(req.Name)
	if err != nil {
		return property.Name{}, property.Description{}, property.Location{}, property.NightlyRate{}, errs.Mark(err, ErrPropertyValidation)
	}
	description, err := property.NewDescription(req.Description)
	if err != nil {
		return property.Name{}, property.Description{}, property.Location{}, property.NightlyRate{}, errs.Mark(err, ErrPropertyValidation)
	}
	location, err := property.NewLocation(req.Location)
	if err != nil {
		return property.Name{}, property.Description{}, property.Location{}, property.NightlyRate{}, errs.Mark(err, ErrPropertyValidation)
	}
	rate, err := property.NewNightlyRate(req.NightlyRateCents)
	if err != nil {
		return property.Name{}, property.Description{}, property.Location{}, property.NightlyRate{}, errs.Mark(err, ErrPropertyValidation)
	}
	return name, description, location, rate, nil
}
