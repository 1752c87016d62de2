package commands

import (
	"context"
	"encoding/json"
	"errors"

	"travelnest/internal/domain/booking"
	"travelnest/internal/domain/payment"
	"travelnest/internal/infra"
	"travelnest/internal/infra/gateway"
	"travelnest/internal/pkg/clock"
	"travelnest/internal/pkg/config"
	"travelnest/internal/pkg/errs"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrPaymentNotFound         = errs.New("payment not found")
	ErrPaymentAccessDenied     = errs.New("payment access denied")
	ErrBookingNotPayable       = errs.New("booking cannot be paid")
	ErrPaymentAlreadyCompleted = errs.New("payment already completed")
	ErrPaymentGatewayFailed    = errs.New("payment gateway failed")
	ErrPaymentNotReconcilable  = errs.New("payment cannot be reconciled")
)

type InitiatePaymentResult struct {
	PaymentID   uuid.UUID
	BookingID   uuid.UUID
	TxRef       string
	CheckoutURL string
	AmountCents int64
	IsReplayed  bool
}

type PaymentCommands interface {
	InitiatePayment(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (*InitiatePaymentResult, error)
	ReconcileCallback(ctx context.Context, txRef string, succeeded bool) error
}

type paymentUseCaseImpl struct {
	uow     shared.UnitOfWork
	gateway gateway.CheckoutGateway
	cfg     config.PaymentConfig
	clock   clock.Clock
}

func NewPaymentUseCase(uow shared.UnitOfWork, gw gateway.CheckoutGateway, cfg config.PaymentConfig, clk clock.Clock) PaymentCommands {
	return &paymentUseCaseImpl{uow: uow, gateway: gw, cfg: cfg, clock: clk}
}

// InitiatePayment is get-or-create: a pending payment replays its checkout
// URL, a completed one conflicts, and only a booking with no active payment
// reaches the gateway. The remote call runs outside any DB transaction, and
// no payment row exists until the gateway has answered, so a gateway failure
// leaves nothing behind.
func (uc *paymentUseCaseImpl) InitiatePayment(ctx context.Context, bookingID uuid.UUID, actorID uuid.UUID) (*InitiatePaymentResult, error) {
	reads := uc.uow.CommandReads()

	snap, err := reads.BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if snap.GuestID != actorID {
		return nil, ErrPaymentAccessDenied
	}

	if result, err := uc.checkExistingPayment(ctx, snap); err != nil || result != nil {
		return result, err
	}

	if booking.Status(snap.Status) != booking.StatusPending {
		return nil, ErrBookingNotPayable
	}

	// The payment ID doubles as the gateway tx_ref, so it is generated before
	// the row exists.
	paymentID := uuid.New()
	initiated, err := uc.gateway.Initiate(ctx, gateway.InitiateRequest{
		AmountCents: snap.TotalPriceCents,
		Currency:    uc.cfg.Currency,
		Email:       snap.GuestEmail,
		FirstName:   snap.GuestFirstName,
		LastName:    snap.GuestLastName,
		TxRef:       paymentID.String(),
		CallbackURL: uc.cfg.CallbackURL,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrPaymentGatewayFailed)
	}

	return uc.persistInitiatedPayment(ctx, snap, paymentID, initiated.CheckoutURL)
}

// checkExistingPayment resolves the get-or-create fast path. A canceled
// payment does not count: the partial unique index ignores it, so a fresh
// initiation can proceed.
func (uc *paymentUseCaseImpl) checkExistingPayment(ctx context.Context, snap *shared.BookingSnapshot) (*InitiatePaymentResult, error) {
	existing, err := uc.uow.CommandReads().ActivePaymentByBookingID(ctx, snap.ID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}

	switch payment.Status(existing.Status) {
	case payment.StatusPending:
		return &InitiatePaymentResult{
			PaymentID:   existing.ID,
			BookingID:   snap.ID,
			TxRef:       existing.TxRef,
			CheckoutURL: existing.CheckoutURL,
			AmountCents: existing.AmountCents,
			IsReplayed:  true,
		}, nil
	case payment.StatusCompleted:
		return nil, ErrPaymentAlreadyCompleted
	case payment.StatusFailed:
		// Retire the failed attempt so the unique index accepts a new row.
		err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			derr := tx.Payments().UpdateStatus(ctx, tx.DB(), existing.ID, payment.StatusCanceled)
			if derr != nil && !infra.IsKind(derr, infra.KindPreconditionFailed) {
				return derr
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return nil, nil
	default:
		return nil, nil
	}
}

func (uc *paymentUseCaseImpl) persistInitiatedPayment(ctx context.Context, snap *shared.BookingSnapshot, paymentID uuid.UUID, checkoutURL string) (*InitiatePaymentResult, error) {
	amount, err := payment.NewAmount(snap.TotalPriceCents)
	if err != nil {
		return nil, err
	}
	txRef, err := payment.NewTxRef(paymentID.String())
	if err != nil {
		return nil, err
	}
	p, err := payment.NewPayment(paymentID, snap.ID, amount, txRef, checkoutURL)
	if err != nil {
		return nil, err
	}

	var result *InitiatePaymentResult
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		fresh, derr := tx.Reads().BookingByID(ctx, snap.ID)
		if derr != nil {
			return derr
		}
		if booking.Status(fresh.Status) != booking.StatusPending {
			return ErrBookingNotPayable
		}

		inserted, derr := tx.Payments().Create(ctx, tx.DB(), p)
		if derr != nil {
			return derr
		}
		if inserted {
			result = &InitiatePaymentResult{
				PaymentID:   p.ID(),
				BookingID:   p.BookingID(),
				TxRef:       p.TxRef().String(),
				CheckoutURL: p.CheckoutURL(),
				AmountCents: p.Amount().Cents(),
				IsReplayed:  false,
			}
			return nil
		}

		// A concurrent initiation won; hand back the winner's checkout URL.
		winner, derr := tx.Reads().ActivePaymentByBookingID(ctx, snap.ID)
		if derr != nil {
			return derr
		}
		if payment.Status(winner.Status) == payment.StatusCompleted {
			return ErrPaymentAlreadyCompleted
		}
		result = &InitiatePaymentResult{
			PaymentID:   winner.ID,
			BookingID:   winner.BookingID,
			TxRef:       winner.TxRef,
			CheckoutURL: winner.CheckoutURL,
			AmountCents: winner.AmountCents,
			IsReplayed:  true,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ReconcileCallback settles a payment by tx_ref. A successful settle confirms
// the booking in the same transaction. Replaying a success for an
// already-completed payment is a no-op.
func (uc *paymentUseCaseImpl) ReconcileCallback(ctx context.Context, txRef string, succeeded bool) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().PaymentByTxRef(ctx, txRef)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		amount, err := payment.NewAmount(snap.AmountCents)
		if err != nil {
			return err
		}
		ref, err := payment.NewTxRef(snap.TxRef)
		if err != nil {
			return err
		}
		p := payment.ReconstructPayment(
			snap.ID, snap.BookingID,
			amount, ref, snap.CheckoutURL,
			payment.Status(snap.Status),
			uc.clock.Now(), uc.clock.Now(),
		)

		if succeeded {
			return uc.settleSuccess(ctx, tx, p)
		}
		return uc.settleFailure(ctx, tx, p)
	})
}

func (uc *paymentUseCaseImpl) settleSuccess(ctx context.Context, tx shared.Tx, p *payment.Payment) error {
	if err := p.MarkCompleted(); err != nil {
		if errors.Is(err, payment.ErrAlreadyCompleted) {
			return nil
		}
		return errs.Mark(err, ErrPaymentNotReconcilable)
	}

	if err := tx.Payments().UpdateStatus(ctx, tx.DB(), p.ID(), p.Status()); err != nil {
		// A concurrent settle already moved the payment; the replay is a no-op.
		if infra.IsKind(err, infra.KindPreconditionFailed) {
			return nil
		}
		return err
	}

	bsnap, err := tx.Reads().BookingByID(ctx, p.BookingID())
	if err != nil {
		return err
	}

	b, err := reconstructFromSnapshot(bsnap)
	if err != nil {
		return err
	}

	// A booking canceled before the callback stays canceled; the settled
	// payment is recorded but does not resurrect the hold on the dates.
	if err := b.Confirm(); err != nil {
		if errors.Is(err, booking.ErrInvalidTransition) {
			return nil
		}
		return errs.Mark(err, ErrPaymentNotReconcilable)
	}

	if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), b.ID(), b.Status()); err != nil {
		if infra.IsKind(err, infra.KindPreconditionFailed) {
			return nil
		}
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"booking_id": p.BookingID(),
		"payment_id": p.ID(),
		"type":       "booking_confirmed",
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "booking_confirmed", payload, uc.clock.Now())
}

func (uc *paymentUseCaseImpl) settleFailure(ctx context.Context, tx shared.Tx, p *payment.Payment) error {
	if err := p.MarkFailed(); err != nil {
		// Failure callbacks for already-settled payments are stale; drop them.
		return nil
	}
	if err := tx.Payments().UpdateStatus(ctx, tx.DB(), p.ID(), p.Status()); err != nil {
		if infra.IsKind(err, infra.KindPreconditionFailed) {
			return nil
		}
		return err
	}
	return nil
}
