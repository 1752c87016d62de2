package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrAlreadyCompleted  = errors.New("payment is already completed")
)

type Payment struct {
	id          uuid.UUID
	bookingID   uuid.UUID
	amount      Amount
	txRef       TxRef
	checkoutURL string
	status      Status
	createdAt   time.Time
	updatedAt   time.Time
}

// NewPayment records a successfully initiated gateway transaction. The id is
// chosen by the caller because it doubles as the tx_ref sent to the gateway
// before the row exists.
func NewPayment(id, bookingID uuid.UUID, amount Amount, txRef TxRef, checkoutURL string) (*Payment, error) {
	if checkoutURL == "" {
		return nil, ErrEmptyCheckoutURL
	}
	return &Payment{
		id:          id,
		bookingID:   bookingID,
		amount:      amount,
		txRef:       txRef,
		checkoutURL: checkoutURL,
		status:      StatusPending,
	}, nil
}

func ReconstructPayment(
	id, bookingID uuid.UUID,
	amount Amount,
	txRef TxRef,
	checkoutURL string,
	status Status,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:          id,
		bookingID:   bookingID,
		amount:      amount,
		txRef:       txRef,
		checkoutURL: checkoutURL,
		status:      status,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (p *Payment) MarkCompleted() error {
	if p.status == StatusCompleted {
		return ErrAlreadyCompleted
	}
	if p.status != StatusPending {
		return ErrInvalidTransition
	}
	p.status = StatusCompleted
	return nil
}

func (p *Payment) MarkFailed() error {
	if p.status != StatusPending {
		return ErrInvalidTransition
	}
	p.status = StatusFailed
	return nil
}

// MarkCanceled releases the booking_id slot so a fresh initiation can
// create a new payment.
func (p *Payment) MarkCanceled() error {
	if p.status == StatusCompleted || p.status == StatusCanceled {
		return ErrInvalidTransition
	}
	p.status = StatusCanceled
	return nil
}

func (p *Payment) IsPending() bool   { return p.status == StatusPending }
func (p *Payment) IsCompleted() bool { return p.status == StatusCompleted }

func (p *Payment) ID() uuid.UUID        { return p.id }
func (p *Payment) BookingID() uuid.UUID { return p.bookingID }
func (p *Payment) Amount() Amount       { return p.amount }
func (p *Payment) TxRef() TxRef         { return p.txRef }
func (p *Payment) CheckoutURL() string  { return p.checkoutURL }
func (p *Payment) Status() Status       { return p.status }
func (p *Payment) CreatedAt() time.Time { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time { return p.updatedAt }
