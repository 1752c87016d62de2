//go:build unit

package commands_test

import (
	"context"
	"testing"

	"travelnest/internal/domain/booking"
	"travelnest/internal/infra"
	"travelnest/internal/pkg/clock"
	"travelnest/internal/usecase/commands"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewUseCase(uow *fakeUoW) commands.ReviewCommands {
	return commands.NewReviewUseCase(uow, clock.NewMockClock(testNow))
}

// seedEndedStay seeds a confirmed booking whose stay is already over, which
// makes the guest eligible to review the property.
func seedEndedStay(uow *fakeUoW) *shared.BookingSnapshot {
	bsnap := seedPendingBooking(uow, uuid.New())
	bsnap.Status = booking.StatusConfirmed.String()
	bsnap.StartDate = testNow.AddDate(0, 0, -10)
	bsnap.EndDate = testNow.AddDate(0, 0, -7)
	return bsnap
}

func validReviewRequest(bsnap *shared.BookingSnapshot) commands.CreateReviewRequest {
	return commands.CreateReviewRequest{
		PropertyID: bsnap.PropertyID,
		BookingID:  bsnap.ID,
		Rating:     4,
		Comment:    "Great stay, would book again.",
	}
}

// unusableReads fails every lookup. Installed as the out-of-transaction reads
// to prove a code path never leaves the transaction.
type unusableReads struct{}

func (unusableReads) PropertyByID(context.Context, uuid.UUID) (*shared.PropertySnapshot, error) {
	return nil, notFound("reads used outside transaction")
}

func (unusableReads) BookingByID(context.Context, uuid.UUID) (*shared.BookingSnapshot, error) {
	return nil, notFound("reads used outside transaction")
}

func (unusableReads) ActivePaymentByBookingID(context.Context, uuid.UUID) (*shared.PaymentSnapshot, error) {
	return nil, notFound("reads used outside transaction")
}

func (unusableReads) PaymentByTxRef(context.Context, string) (*shared.PaymentSnapshot, error) {
	return nil, notFound("reads used outside transaction")
}

func TestCreateReview(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		uow := newFakeUoW()
		bsnap := seedEndedStay(uow)

		result, err := newReviewUseCase(uow).CreateReview(context.Background(), validReviewRequest(bsnap), bsnap.GuestID)
		require.NoError(t, err)

		require.Len(t, uow.tx.reviews.created, 1)
		assert.Equal(t, result.ReviewID, uow.tx.reviews.created[0])
		// 評価サマリは同一トランザクションで再計算される
		require.Len(t, uow.tx.ratingStats.recalcs, 1)
		assert.Equal(t, bsnap.PropertyID, uow.tx.ratingStats.recalcs[0])
	})

	t.Run("適格性の読取はリクエストコンテキストでトランザクション内を使う", func(t *testing.T) {
		uow := newFakeUoW()
		bsnap := seedEndedStay(uow)
		// トランザクション外の読取を壊しておく。成功すれば適格性チェックが
		// Tx.Reads()経由だったことの証明になる。
		uow.commandReads = unusableReads{}

		type ctxKey struct{}
		ctx := context.WithValue(context.Background(), ctxKey{}, "request-scoped")

		_, err := newReviewUseCase(uow).CreateReview(ctx, validReviewRequest(bsnap), bsnap.GuestID)
		require.NoError(t, err)

		require.NotNil(t, uow.tx.reads.lastBookingCtx)
		assert.Equal(t, "request-scoped", uow.tx.reads.lastBookingCtx.Value(ctxKey{}))
	})

	t.Run("不適格な予約はErrReviewNotEligible", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(uow *fakeUoW, bsnap *shared.BookingSnapshot, req *commands.CreateReviewRequest, guestID *uuid.UUID)
		}{
			{"pendingの予約", func(_ *fakeUoW, bsnap *shared.BookingSnapshot, _ *commands.CreateReviewRequest, _ *uuid.UUID) {
				bsnap.Status = booking.StatusPending.String()
			}},
			{"滞在が終わっていない", func(_ *fakeUoW, bsnap *shared.BookingSnapshot, _ *commands.CreateReviewRequest, _ *uuid.UUID) {
				bsnap.StartDate = testNow.AddDate(0, 0, 1)
				bsnap.EndDate = testNow.AddDate(0, 0, 4)
			}},
			{"他人の予約", func(_ *fakeUoW, _ *shared.BookingSnapshot, _ *commands.CreateReviewRequest, guestID *uuid.UUID) {
				*guestID = uuid.New()
			}},
			{"別物件の予約", func(_ *fakeUoW, _ *shared.BookingSnapshot, req *commands.CreateReviewRequest, _ *uuid.UUID) {
				req.PropertyID = uuid.New()
			}},
			{"存在しない予約", func(_ *fakeUoW, _ *shared.BookingSnapshot, req *commands.CreateReviewRequest, _ *uuid.UUID) {
				req.BookingID = uuid.New()
			}},
		}

		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				uow := newFakeUoW()
				bsnap := seedEndedStay(uow)
				req := validReviewRequest(bsnap)
				guestID := bsnap.GuestID
				c.mutate(uow, bsnap, &req, &guestID)

				_, err := newReviewUseCase(uow).CreateReview(context.Background(), req, guestID)
				require.ErrorIs(t, err, commands.ErrReviewNotEligible)
				assert.Empty(t, uow.tx.reviews.created)
			})
		}
	})

	t.Run("同一物件への二件目はErrDuplicateReview", func(t *testing.T) {
		uow := newFakeUoW()
		bsnap := seedEndedStay(uow)
		uow.tx.reviews.createErr = infra.WrapRepoErr("insert rejected", nil, infra.KindDuplicateKey)

		_, err := newReviewUseCase(uow).CreateReview(context.Background(), validReviewRequest(bsnap), bsnap.GuestID)
		require.ErrorIs(t, err, commands.ErrDuplicateReview)
		assert.Empty(t, uow.tx.ratingStats.recalcs)
	})
}
