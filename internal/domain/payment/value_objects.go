package payment

import (
	"errors"
	"strings"
)

var (
	ErrEmptyTxRef       = errors.New("transaction reference cannot be empty")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
	ErrEmptyCheckoutURL = errors.New("checkout url cannot be empty")
)

// TxRef is the gateway-facing transaction reference. It is unique per
// payment and is the key callbacks are reconciled by.
type TxRef struct {
	value string
}

func NewTxRef(s string) (TxRef, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return TxRef{}, ErrEmptyTxRef
	}
	return TxRef{value: t}, nil
}

func (r TxRef) String() string { return r.value }

type Amount struct {
	cents int64
}

func NewAmount(cents int64) (Amount, error) {
	if cents <= 0 {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{cents: cents}, nil
}

func (a Amount) Cents() int64 { return a.cents }

func (a Amount) Units() float64 {
	return float64(a.cents) / 100.0
}
