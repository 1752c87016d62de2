package readstore

import (
	"context"

	"travelnest/internal/infra"
	"travelnest/internal/infra/db"
	"travelnest/internal/pkg/pgconv"
	"travelnest/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

const paymentSelectSQL = `
SELECT id, booking_id, status, amount_cents, tx_ref, checkout_url, created_at, updated_at
FROM payments
`

const paymentLatestByBookingSQL = paymentSelectSQL + `
WHERE booking_id = $1
ORDER BY created_at DESC, id DESC
LIMIT 1
`

// Partial unique index on (booking_id) WHERE status <> 'canceled' guarantees
// at most one active row.
const paymentActiveByBookingSQL = paymentSelectSQL + `
WHERE booking_id = $1 AND status <> 'canceled'
`

const paymentByTxRefSQL = paymentSelectSQL + `
WHERE tx_ref = $1
`

func (r *PaymentReadStore) FindLatestByBookingID(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentView, error) {
	return r.scanPayment(ctx, paymentLatestByBookingSQL, bookingID)
}

func (r *PaymentReadStore) FindActiveByBookingID(ctx context.Context, bookingID uuid.UUID) (*queries.PaymentView, error) {
	return r.scanPayment(ctx, paymentActiveByBookingSQL, bookingID)
}

func (r *PaymentReadStore) FindByTxRef(ctx context.Context, txRef string) (*queries.PaymentView, error) {
	return r.scanPayment(ctx, paymentByTxRefSQL, txRef)
}

func (r *PaymentReadStore) scanPayment(ctx context.Context, sql string, arg any) (*queries.PaymentView, error) {
	var (
		v         queries.PaymentView
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, sql, arg).Scan(
		&v.ID, &v.BookingID, &v.Status, &v.AmountCents, &v.TxRef, &v.CheckoutURL,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}

	v.CreatedAt = pgconv.TimeFromPgtype(createdAt)
	v.UpdatedAt = pgconv.TimeFromPgtype(updatedAt)

	return &v, nil
}
