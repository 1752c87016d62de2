//go:build unit || e2e

package builder

import (
	"travelnest/internal/domain/payment"
	"travelnest/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	AmountCents int64
	TxRef       string
	CheckoutURL string
}

func NewPaymentBuilder() *PaymentBuilder {
	id := uuid.New()
	return &PaymentBuilder{
		ID:          id,
		BookingID:   uuid.New(),
		AmountCents: 45000,
		TxRef:       id.String(),
		CheckoutURL: "https://checkout.chapa.co/checkout/payment/abc123",
	}
}

func (p *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(p)
	return p
}

func (p *PaymentBuilder) BuildDomain() (*payment.Payment, error) {
	amount, err := payment.NewAmount(p.AmountCents)
	if err != nil {
		return nil, err
	}
	txRef, err := payment.NewTxRef(p.TxRef)
	if err != nil {
		return nil, err
	}
	return payment.NewPayment(p.ID, p.BookingID, amount, txRef, p.CheckoutURL)
}

func (p *PaymentBuilder) BuildSnapshot(status string) *shared.PaymentSnapshot {
	return &shared.PaymentSnapshot{
		ID:          p.ID,
		BookingID:   p.BookingID,
		Status:      status,
		AmountCents: p.AmountCents,
		TxRef:       p.TxRef,
		CheckoutURL: p.CheckoutURL,
	}
}

// Fluent builder methods
func (p *PaymentBuilder) WithAmount(cents int64) *PaymentBuilder {
	p.AmountCents = cents
	return p
}

func (p *PaymentBuilder) WithTxRef(txRef string) *PaymentBuilder {
	p.TxRef = txRef
	return p
}

func (p *PaymentBuilder) WithCheckoutURL(url string) *PaymentBuilder {
	p.CheckoutURL = url
	return p
}
