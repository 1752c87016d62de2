package commands

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"travelnest/internal/domain/booking"
	"travelnest/internal/domain/payment"
	"travelnest/internal/infra"
	"travelnest/internal/pkg/clock"
	"travelnest/internal/pkg/errs"
	"travelnest/internal/usecase/queries"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPropertyNotFound        = errs.New("property not found")
	ErrBookingNotFound         = errs.New("booking not found")
	ErrBookingConflict         = errs.New("booking dates conflict with an existing booking")
	ErrSelfBookingForbidden    = errs.New("host cannot book own property")
	ErrInvalidBookingDates     = errs.New("invalid booking dates")
	ErrBookingNotPending       = errs.New("booking is not pending")
	ErrInvalidStatusTransition = errs.New("invalid booking status transition")
	ErrBookingAccessDenied     = errs.New("booking access denied")
)

type CreateBookingRequest struct {
	PropertyID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
}

type UpdateBookingDatesRequest struct {
	StartDate time.Time
	EndDate   time.Time
}

type CreateBookingResult struct {
	BookingID uuid.UUID
}

type BookingCommands interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest, guestID uuid.UUID) (*CreateBookingResult, error)
	UpdateBookingDates(ctx context.Context, bookingID uuid.UUID, req UpdateBookingDatesRequest, actorID uuid.UUID) error
	CancelBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, actorRole string) error
}

type bookingUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewBookingUseCase(uow shared.UnitOfWork, clk clock.Clock) BookingCommands {
	return &bookingUseCaseImpl{uow: uow, clock: clk}
}

// CreateBooking admits a pending booking. Availability is enforced by the
// storage-level exclusion constraint: the insert either lands or conflicts,
// there is no separate check step to race against.
func (uc *bookingUseCaseImpl) CreateBooking(ctx context.Context, req CreateBookingRequest, guestID uuid.UUID) (*CreateBookingResult, error) {
	stay, err := booking.NewStayPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidBookingDates)
	}

	services := &booking.Services{Clock: uc.clock}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		prop, derr := tx.Reads().PropertyByID(ctx, req.PropertyID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrPropertyNotFound
			}
			return derr
		}

		b, derr := booking.NewBooking(services, booking.PropertySpec{
			ID:               prop.ID,
			HostID:           prop.HostID,
			NightlyRateCents: prop.NightlyRateCents,
		}, guestID, stay)
		if derr != nil {
			return mapBookingDomainErr(derr)
		}

		id, derr := tx.Bookings().Create(ctx, tx.DB(), b)
		if derr != nil {
			if infra.IsKind(derr, infra.KindConflict) {
				return ErrBookingConflict
			}
			if infra.IsKind(derr, infra.KindForeignKeyViolated) {
				return ErrPropertyNotFound
			}
			return derr
		}
		createdID = id

		return uc.enqueueBookingEvent(ctx, tx, id, "booking_created")
	})
	if err != nil {
		return nil, err
	}

	return &CreateBookingResult{BookingID: createdID}, nil
}

// UpdateBookingDates reschedules a pending booking and reprices it with the
// property's current nightly rate. The updated row is excluded from its own
// overlap check because both happen in one statement.
func (uc *bookingUseCaseImpl) UpdateBookingDates(ctx context.Context, bookingID uuid.UUID, req UpdateBookingDatesRequest, actorID uuid.UUID) error {
	stay, err := booking.NewStayPeriod(req.StartDate, req.EndDate)
	if err != nil {
		return errs.Mark(err, ErrInvalidBookingDates)
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().BookingByID(ctx, bookingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return derr
		}
		if snap.GuestID != actorID {
			return ErrBookingAccessDenied
		}

		prop, derr := tx.Reads().PropertyByID(ctx, snap.PropertyID)
		if derr != nil {
			return derr
		}

		b, derr := reconstructFromSnapshot(snap)
		if derr != nil {
			return derr
		}

		if derr = b.Reschedule(stay, prop.NightlyRateCents, uc.clock.Now()); derr != nil {
			return mapBookingDomainErr(derr)
		}

		if derr = tx.Bookings().UpdateStay(ctx, tx.DB(), b); derr != nil {
			if infra.IsKind(derr, infra.KindConflict) {
				return ErrBookingConflict
			}
			// A concurrent transaction moved the booking out of pending between
			// the snapshot read and the guarded update.
			if infra.IsKind(derr, infra.KindPreconditionFailed) {
				return ErrBookingNotPending
			}
			return derr
		}
		return nil
	})
}

// CancelBooking cancels a pending or confirmed booking. Canceling an already
// canceled booking is an error, not a no-op. Any pending payment for the
// booking is canceled with it so a later callback cannot resurrect the hold.
func (uc *bookingUseCaseImpl) CancelBooking(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID, actorRole string) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, derr := tx.Reads().BookingByID(ctx, bookingID)
		if derr != nil {
			if infra.IsKind(derr, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return derr
		}

		if derr = uc.authorizeCancel(ctx, tx, snap, actorID, actorRole); derr != nil {
			return derr
		}

		b, derr := reconstructFromSnapshot(snap)
		if derr != nil {
			return derr
		}
		if derr = b.Cancel(); derr != nil {
			return mapBookingDomainErr(derr)
		}

		if derr = tx.Bookings().UpdateStatus(ctx, tx.DB(), bookingID, b.Status()); derr != nil {
			// Two cancels can race past the snapshot read; the guarded update
			// lets only one through and the loser gets the transition error.
			if infra.IsKind(derr, infra.KindPreconditionFailed) {
				return ErrInvalidStatusTransition
			}
			return derr
		}

		if derr = uc.cancelPendingPayment(ctx, tx, bookingID); derr != nil {
			return derr
		}

		return uc.enqueueBookingEvent(ctx, tx, bookingID, "booking_canceled")
	})
}

func (uc *bookingUseCaseImpl) authorizeCancel(ctx context.Context, tx shared.Tx, snap *shared.BookingSnapshot, actorID uuid.UUID, actorRole string) error {
	if actorRole == queries.RoleAdmin || snap.GuestID == actorID {
		return nil
	}

	prop, err := tx.Reads().PropertyByID(ctx, snap.PropertyID)
	if err != nil {
		return err
	}
	if prop.HostID != actorID {
		return ErrBookingAccessDenied
	}
	return nil
}

func (uc *bookingUseCaseImpl) cancelPendingPayment(ctx context.Context, tx shared.Tx, bookingID uuid.UUID) error {
	p, err := tx.Reads().ActivePaymentByBookingID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil
		}
		return err
	}
	if p.Status != payment.StatusPending.String() && p.Status != payment.StatusFailed.String() {
		return nil
	}
	if err = tx.Payments().UpdateStatus(ctx, tx.DB(), p.ID, payment.StatusCanceled); err != nil {
		// A concurrent callback settled the payment; leave it for manual
		// reconciliation, the booking cancel itself stands.
		if infra.IsKind(err, infra.KindPreconditionFailed) {
			return nil
		}
		return err
	}
	return nil
}

func (uc *bookingUseCaseImpl) enqueueBookingEvent(ctx context.Context, tx shared.Tx, bookingID uuid.UUID, topic string) error {
	payload, err := json.Marshal(map[string]any{
		"booking_id": bookingID,
		"type":       topic,
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", topic, payload, uc.clock.Now())
}

func reconstructFromSnapshot(snap *shared.BookingSnapshot) (*booking.Booking, error) {
	stay, err := booking.NewStayPeriod(snap.StartDate, snap.EndDate)
	if err != nil {
		return nil, err
	}
	return booking.ReconstructBooking(
		snap.ID, snap.PropertyID, snap.GuestID,
		stay,
		booking.Status(snap.Status),
		booking.NewMoney(snap.TotalPriceCents),
		time.Time{}, time.Time{},
	), nil
}

func mapBookingDomainErr(err error) error {
	switch {
	case errors.Is(err, booking.ErrSelfBooking):
		return ErrSelfBookingForbidden
	case errors.Is(err, booking.ErrInvalidDateRange), errors.Is(err, booking.ErrStartInPast):
		return errs.Mark(err, ErrInvalidBookingDates)
	case errors.Is(err, booking.ErrNotPending):
		return ErrBookingNotPending
	case errors.Is(err, booking.ErrInvalidTransition):
		return ErrInvalidStatusTransition
	default:
		return err
	}
}
