//go:build unit

package payment_test

import (
	"testing"

	"travelnest/internal/domain/payment"
	"travelnest/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.PaymentBuilder)
	errIs  error
}

func TestPayment(t *testing.T) {
	t.Run("基本成功ケース", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.Equal(t, b.ID, actual.ID())
		assert.Equal(t, b.BookingID, actual.BookingID())
		assert.Equal(t, b.ID.String(), actual.TxRef().String())
		assert.True(t, actual.IsPending())
	})

	t.Run("値オブジェクト検証", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "金額ゼロNG",
				mutate: func(b *builder.PaymentBuilder) { b.WithAmount(0) },
				errIs:  payment.ErrInvalidAmount,
			},
			{
				name:   "負の金額NG",
				mutate: func(b *builder.PaymentBuilder) { b.WithAmount(-100) },
				errIs:  payment.ErrInvalidAmount,
			},
			{
				name:   "空のtx_refNG",
				mutate: func(b *builder.PaymentBuilder) { b.WithTxRef("   ") },
				errIs:  payment.ErrEmptyTxRef,
			},
			{
				name:   "空のcheckout_urlNG",
				mutate: func(b *builder.PaymentBuilder) { b.WithCheckoutURL("") },
				errIs:  payment.ErrEmptyCheckoutURL,
			},
		})
	})
}

func TestPaymentTransitions(t *testing.T) {
	newPending := func(t *testing.T) *payment.Payment {
		t.Helper()
		p, err := builder.NewPaymentBuilder().BuildDomain()
		require.NoError(t, err)
		return p
	}

	t.Run("pendingからcompletedへ遷移できる", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkCompleted())
		assert.True(t, p.IsCompleted())
	})

	t.Run("completedの再完了はErrAlreadyCompleted", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkCompleted())
		require.ErrorIs(t, p.MarkCompleted(), payment.ErrAlreadyCompleted)
		assert.True(t, p.IsCompleted())
	})

	t.Run("pendingからfailedへ遷移できる", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkFailed())
		assert.False(t, p.IsPending())
		assert.False(t, p.IsCompleted())
	})

	t.Run("failedの完了は不可", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkFailed())
		require.ErrorIs(t, p.MarkCompleted(), payment.ErrInvalidTransition)
	})

	t.Run("completedの失敗は不可", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkCompleted())
		require.ErrorIs(t, p.MarkFailed(), payment.ErrInvalidTransition)
	})

	t.Run("pendingとfailedはキャンセルできる", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkCanceled())

		p2 := newPending(t)
		require.NoError(t, p2.MarkFailed())
		require.NoError(t, p2.MarkCanceled())
	})

	t.Run("completedのキャンセルは不可", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkCompleted())
		require.ErrorIs(t, p.MarkCanceled(), payment.ErrInvalidTransition)
	})

	t.Run("二重キャンセルは不可", func(t *testing.T) {
		p := newPending(t)
		require.NoError(t, p.MarkCanceled())
		require.ErrorIs(t, p.MarkCanceled(), payment.ErrInvalidTransition)
	})
}

func TestStatus(t *testing.T) {
	t.Run("終端状態の判定", func(t *testing.T) {
		assert.False(t, payment.StatusPending.IsSettled())
		assert.True(t, payment.StatusCompleted.IsSettled())
		assert.True(t, payment.StatusFailed.IsSettled())
		assert.True(t, payment.StatusCanceled.IsSettled())
	})
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			actual, err := builder.NewPaymentBuilder().With(c.mutate).BuildDomain()

			if c.errIs == nil {
				require.NotNil(t, actual)
				require.NoError(t, err)
			} else {
				require.Nil(t, actual)
				require.Error(t, err)
				require.ErrorIs(t, err, c.errIs)
			}
		})
	}
}
