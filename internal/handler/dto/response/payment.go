package response

import (
	"time"

	"travelnest/internal/usecase/commands"
	"travelnest/internal/usecase/queries"

	"github.com/google/uuid"
)

type InitiatePaymentResponse struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	TxRef       string    `json:"tx_ref"`
	CheckoutURL string    `json:"checkout_url"`
	AmountCents int64     `json:"amount_cents"`
}

type PaymentResponse struct {
	ID          uuid.UUID `json:"id"`
	BookingID   uuid.UUID `json:"booking_id"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	TxRef       string    `json:"tx_ref"`
	CheckoutURL string    `json:"checkout_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromInitiatePaymentResult(r *commands.InitiatePaymentResult) *InitiatePaymentResponse {
	return &InitiatePaymentResponse{
		PaymentID:   r.PaymentID,
		BookingID:   r.BookingID,
		TxRef:       r.TxRef,
		CheckoutURL: r.CheckoutURL,
		AmountCents: r.AmountCents,
	}
}

func FromPaymentView(v *queries.PaymentView) *PaymentResponse {
	return &PaymentResponse{
		ID:          v.ID,
		BookingID:   v.BookingID,
		Status:      v.Status,
		AmountCents: v.AmountCents,
		TxRef:       v.TxRef,
		CheckoutURL: v.CheckoutURL,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
