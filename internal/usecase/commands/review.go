package commands

import (
	"context"
	"errors"
	"time"

	"travelnest/internal/domain/booking"
	domreview "travelnest/internal/domain/review"
	"travelnest/internal/infra"
	"travelnest/internal/pkg/clock"
	"travelnest/internal/pkg/errs"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrDuplicateReview   = errs.New("duplicate review for property")
	ErrReviewNotEligible = errs.New("booking not eligible for review")
)

type CreateReviewRequest struct {
	PropertyID uuid.UUID
	BookingID  uuid.UUID
	Rating     int
	Comment    string
}

type CreateReviewResult struct {
	ReviewID uuid.UUID
}

type ReviewCommands interface {
	CreateReview(ctx context.Context, req CreateReviewRequest, guestID uuid.UUID) (*CreateReviewResult, error)
}

type reviewUseCaseImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewReviewUseCase(uow shared.UnitOfWork, clk clock.Clock) ReviewCommands {
	return &reviewUseCaseImpl{uow: uow, clock: clk}
}

func (uc *reviewUseCaseImpl) CreateReview(ctx context.Context, req CreateReviewRequest, guestID uuid.UUID) (*CreateReviewResult, error) {
	rating, err := domreview.NewRating(req.Rating)
	if err != nil {
		return nil, err
	}
	comment, err := domreview.NewComment(req.Comment)
	if err != nil {
		return nil, err
	}

	var createdID uuid.UUID
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		services := &domreview.Services{
			Clock:              uc.clock,
			EligibilityChecker: &txEligibilityChecker{ctx: ctx, reads: tx.Reads()},
		}

		rev, derr := domreview.NewReview(services, guestID, req.PropertyID, req.BookingID, rating, comment)
		if derr != nil {
			return mapReviewDomainErr(derr)
		}

		id, derr := tx.Reviews().Create(ctx, tx.DB(), rev)
		if derr != nil {
			if infra.IsKind(derr, infra.KindDuplicateKey) {
				return ErrDuplicateReview
			}
			if infra.IsKind(derr, infra.KindForeignKeyViolated) {
				return ErrBookingNotFound
			}
			return derr
		}
		createdID = id

		return tx.RatingStats().RecalcPropertyRatingStats(ctx, tx.DB(), req.PropertyID)
	})
	if err != nil {
		return nil, err
	}

	return &CreateReviewResult{ReviewID: createdID}, nil
}

// txEligibilityChecker runs the eligibility read inside the transaction that
// will insert the review, under the request context. The domain interface
// carries no context, so the checker is built per call with both captured.
type txEligibilityChecker struct {
	ctx   context.Context
	reads shared.CommandReads
}

// CanPostReview implements the eligibility check: the booking must belong to
// the reviewer and the property, be confirmed, and have ended.
func (c *txEligibilityChecker) CanPostReview(input domreview.EligibilityInput) error {
	snap, err := c.reads.BookingByID(c.ctx, input.BookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return domreview.ErrBookingNotEligible
		}
		return err
	}
	if snap.GuestID != input.GuestID || snap.PropertyID != input.PropertyID {
		return domreview.ErrBookingNotEligible
	}
	if booking.Status(snap.Status) != booking.StatusConfirmed {
		return domreview.ErrBookingNotEligible
	}
	if snap.EndDate.After(truncateToDate(input.Now)) {
		return domreview.ErrBookingNotEligible
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mapReviewDomainErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domreview.ErrBookingNotEligible) {
		return ErrReviewNotEligible
	}
	return err
}
