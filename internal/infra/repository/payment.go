package repository

import (
	"context"
	"errors"

	"travelnest/internal/domain/payment"
	"travelnest/internal/infra"
	"travelnest/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository struct{}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{}
}

// Source statuses a guarded status UPDATE accepts, per target. Keeps a stale
// failure callback from overwriting a payment another transaction completed.
var paymentStatusSources = map[payment.Status][]string{
	payment.StatusCompleted: {payment.StatusPending.String()},
	payment.StatusFailed:    {payment.StatusPending.String()},
	payment.StatusCanceled:  {payment.StatusPending.String(), payment.StatusFailed.String()},
}

const createPaymentSQL = `
INSERT INTO payments (id, booking_id, amount_cents, tx_ref, checkout_url, status)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (booking_id) WHERE status <> 'canceled' DO NOTHING
`

// Create inserts the payment unless an active one already exists for the
// booking. The partial unique index arbitrates concurrent initiations;
// losing the race is reported as inserted=false, not an error.
func (r *PaymentRepository) Create(ctx context.Context, tx db.DBTX, p *payment.Payment) (bool, error) {
	tag, err := tx.Exec(ctx, createPaymentSQL,
		p.ID(),
		p.BookingID(),
		p.Amount().Cents(),
		p.TxRef().String(),
		p.CheckoutURL(),
		p.Status().String(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to create payment", err)
	}

	return tag.RowsAffected() > 0, nil
}

const updatePaymentStatusSQL = `
UPDATE payments
SET status = $2, updated_at = now()
WHERE id = $1 AND status = ANY($3)
`

// UpdateStatus applies a transition with its valid source statuses as a SQL
// predicate. Zero rows on an existing payment means a concurrent settle got
// there first.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status payment.Status) error {
	sources, ok := paymentStatusSources[status]
	if !ok {
		return infra.WrapRepoErr("no transition targets status "+status.String(), nil, infra.KindPreconditionFailed)
	}

	tag, err := tx.Exec(ctx, updatePaymentStatusSQL, id, status.String(), sources)
	if err != nil {
		return infra.WrapRepoErr("failed to update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveGuardedMiss(ctx, tx, id)
	}

	return nil
}

const selectPaymentStatusSQL = `
SELECT status FROM payments WHERE id = $1
`

func (r *PaymentRepository) resolveGuardedMiss(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	var current string
	err := tx.QueryRow(ctx, selectPaymentStatusSQL, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return infra.WrapRepoErr("payment not found", nil, infra.KindNotFound)
	}
	if err != nil {
		return infra.WrapRepoErr("failed to read payment status", err)
	}

	return infra.WrapRepoErr("payment is "+current, nil, infra.KindPreconditionFailed)
}
