//go:build unit

package commands_test

import (
	"context"
	"time"

	"travelnest/internal/domain/booking"
	"travelnest/internal/domain/payment"
	"travelnest/internal/domain/review"
	"travelnest/internal/infra"
	"travelnest/internal/infra/db"
	"travelnest/internal/infra/gateway"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory doubles for the unit-of-work surface. Within runs the callback
// against the same fake state without any transaction semantics; tests that
// need rollback behavior belong in the e2e suite.

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

func preconditionFailed(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindPreconditionFailed)
}

type fakeReads struct {
	properties map[uuid.UUID]*shared.PropertySnapshot
	bookings   map[uuid.UUID]*shared.BookingSnapshot
	payments   map[uuid.UUID]*shared.PaymentSnapshot

	lastBookingCtx context.Context
}

func newFakeReads() *fakeReads {
	return &fakeReads{
		properties: map[uuid.UUID]*shared.PropertySnapshot{},
		bookings:   map[uuid.UUID]*shared.BookingSnapshot{},
		payments:   map[uuid.UUID]*shared.PaymentSnapshot{},
	}
}

func (r *fakeReads) PropertyByID(_ context.Context, id uuid.UUID) (*shared.PropertySnapshot, error) {
	if p, ok := r.properties[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, notFound("property not found")
}

func (r *fakeReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	r.lastBookingCtx = ctx
	if b, ok := r.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, notFound("booking not found")
}

func (r *fakeReads) ActivePaymentByBookingID(_ context.Context, bookingID uuid.UUID) (*shared.PaymentSnapshot, error) {
	for _, p := range r.payments {
		if p.BookingID == bookingID && p.Status != payment.StatusCanceled.String() {
			cp := *p
			return &cp, nil
		}
	}
	return nil, notFound("active payment not found")
}

func (r *fakeReads) PaymentByTxRef(_ context.Context, txRef string) (*shared.PaymentSnapshot, error) {
	for _, p := range r.payments {
		if p.TxRef == txRef {
			cp := *p
			return &cp, nil
		}
	}
	return nil, notFound("payment not found")
}

type fakeBookingRepo struct {
	reads     *fakeReads
	createErr error

	created         []uuid.UUID
	stayUpdateErr   error
	stayUpdates     int
	statusUpdateErr error
	statusUpdates   map[uuid.UUID]booking.Status
}

func (f *fakeBookingRepo) Create(_ context.Context, _ db.DBTX, b *booking.Booking) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.created = append(f.created, b.ID())
	f.reads.bookings[b.ID()] = &shared.BookingSnapshot{
		ID:              b.ID(),
		PropertyID:      b.PropertyID(),
		GuestID:         b.GuestID(),
		Status:          b.Status().String(),
		StartDate:       b.Stay().Start(),
		EndDate:         b.Stay().End(),
		TotalPriceCents: b.TotalPrice().Cents(),
	}
	return b.ID(), nil
}

func (f *fakeBookingRepo) UpdateStay(_ context.Context, _ db.DBTX, b *booking.Booking) error {
	if f.stayUpdateErr != nil {
		return f.stayUpdateErr
	}
	f.stayUpdates++
	snap := f.reads.bookings[b.ID()]
	snap.StartDate = b.Stay().Start()
	snap.EndDate = b.Stay().End()
	snap.TotalPriceCents = b.TotalPrice().Cents()
	return nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status booking.Status) error {
	if f.statusUpdateErr != nil {
		return f.statusUpdateErr
	}
	if f.statusUpdates == nil {
		f.statusUpdates = map[uuid.UUID]booking.Status{}
	}
	f.statusUpdates[id] = status
	if snap, ok := f.reads.bookings[id]; ok {
		snap.Status = status.String()
	}
	return nil
}

type fakePaymentRepo struct {
	reads *fakeReads

	createErr error

	// onInsertLost simulates a concurrent initiation winning the insert race.
	onInsertLost func()

	created         []uuid.UUID
	statusUpdateErr error
	statusUpdates   map[uuid.UUID]payment.Status
}

func (f *fakePaymentRepo) Create(_ context.Context, _ db.DBTX, p *payment.Payment) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	if f.onInsertLost != nil {
		f.onInsertLost()
		return false, nil
	}
	for _, existing := range f.reads.payments {
		if existing.BookingID == p.BookingID() && existing.Status != payment.StatusCanceled.String() {
			return false, nil
		}
	}
	f.created = append(f.created, p.ID())
	f.reads.payments[p.ID()] = &shared.PaymentSnapshot{
		ID:          p.ID(),
		BookingID:   p.BookingID(),
		Status:      p.Status().String(),
		AmountCents: p.Amount().Cents(),
		TxRef:       p.TxRef().String(),
		CheckoutURL: p.CheckoutURL(),
	}
	return true, nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status payment.Status) error {
	if f.statusUpdateErr != nil {
		return f.statusUpdateErr
	}
	if f.statusUpdates == nil {
		f.statusUpdates = map[uuid.UUID]payment.Status{}
	}
	f.statusUpdates[id] = status
	if snap, ok := f.reads.payments[id]; ok {
		snap.Status = status.String()
	}
	return nil
}

type fakeReviewRepo struct {
	createErr error
	created   []uuid.UUID
}

func (f *fakeReviewRepo) Create(_ context.Context, _ db.DBTX, rev *review.Review) (uuid.UUID, error) {
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	f.created = append(f.created, rev.ID())
	return rev.ID(), nil
}

type fakeRatingStatsRepo struct {
	recalcs []uuid.UUID
}

func (f *fakeRatingStatsRepo) RecalcPropertyRatingStats(_ context.Context, _ db.DBTX, propertyID uuid.UUID) error {
	f.recalcs = append(f.recalcs, propertyID)
	return nil
}

type queuedJob struct {
	kind  string
	topic string
}

type fakeNotificationRepo struct {
	jobs []queuedJob
}

func (f *fakeNotificationRepo) CreateJob(_ context.Context, _ db.DBTX, kind, topic string, _ []byte, _ time.Time) error {
	f.jobs = append(f.jobs, queuedJob{kind: kind, topic: topic})
	return nil
}

type fakeTx struct {
	reads         *fakeReads
	bookings      *fakeBookingRepo
	payments      *fakePaymentRepo
	reviews       *fakeReviewRepo
	ratingStats   *fakeRatingStatsRepo
	notifications *fakeNotificationRepo
}

func (t *fakeTx) Bookings() shared.BookingRepository           { return t.bookings }
func (t *fakeTx) Payments() shared.PaymentRepository           { return t.payments }
func (t *fakeTx) Properties() shared.PropertyRepository        { return nil }
func (t *fakeTx) Reviews() shared.ReviewRepository             { return t.reviews }
func (t *fakeTx) RatingStats() shared.RatingStatsRepository    { return t.ratingStats }
func (t *fakeTx) Notifications() shared.NotificationRepository { return t.notifications }
func (t *fakeTx) Users() shared.UserRepository                 { return nil }
func (t *fakeTx) Reads() shared.CommandReads                   { return t.reads }
func (t *fakeTx) DB() db.DBTX                                  { return nil }

type fakeUoW struct {
	tx *fakeTx

	// commandReads, when set, stands in for the out-of-transaction reads so a
	// test can tell them apart from Tx.Reads().
	commandReads shared.CommandReads
}

func newFakeUoW() *fakeUoW {
	reads := newFakeReads()
	return &fakeUoW{
		tx: &fakeTx{
			reads:         reads,
			bookings:      &fakeBookingRepo{reads: reads},
			payments:      &fakePaymentRepo{reads: reads},
			reviews:       &fakeReviewRepo{},
			ratingStats:   &fakeRatingStatsRepo{},
			notifications: &fakeNotificationRepo{},
		},
	}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, u.tx)
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) CommandReads() shared.CommandReads {
	if u.commandReads != nil {
		return u.commandReads
	}
	return u.tx.reads
}

func (u *fakeUoW) reads() *fakeReads { return u.tx.reads }

type fakeGateway struct {
	result *gateway.InitiateResult
	err    error

	calls   int
	lastReq gateway.InitiateRequest
}

func (g *fakeGateway) Initiate(_ context.Context, req gateway.InitiateRequest) (*gateway.InitiateResult, error) {
	g.calls++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

var (
	_ shared.UnitOfWork       = (*fakeUoW)(nil)
	_ shared.Tx               = (*fakeTx)(nil)
	_ shared.CommandReads     = (*fakeReads)(nil)
	_ gateway.CheckoutGateway = (*fakeGateway)(nil)
)
