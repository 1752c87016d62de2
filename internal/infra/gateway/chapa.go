// Package gateway holds clients for external payment providers.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"travelnest/internal/pkg/config"
	"travelnest/internal/pkg/errs"
)

var (
	ErrGatewayUnavailable = errs.New("payment gateway unavailable")
	ErrGatewayRejected    = errs.New("payment gateway rejected the request")
)

// InitiateRequest describes one hosted-checkout initialization.
type InitiateRequest struct {
	AmountCents int64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	TxRef       string
	CallbackURL string
}

type InitiateResult struct {
	CheckoutURL string
}

// CheckoutGateway initializes a hosted checkout session for a payment.
type CheckoutGateway interface {
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error)
}

// ChapaGateway speaks the Chapa transaction initialize API.
type ChapaGateway struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewChapaGateway(cfg config.PaymentConfig) *ChapaGateway {
	return &ChapaGateway{
		baseURL:   cfg.GatewayBaseURL,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chapaInitializeBody struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
}

type chapaInitializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// Initiate calls the remote initialize endpoint. The HTTP client timeout
// bounds the call; callers must never hold a DB transaction across it.
func (g *ChapaGateway) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	body := chapaInitializeBody{
		Amount:      fmt.Sprintf("%.2f", float64(req.AmountCents)/100.0),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode initialize request")
	}

	resp, err := g.post(ctx, payload)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to read initialize response"), ErrGatewayUnavailable)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, errs.Mark(
			errs.New(fmt.Sprintf("gateway returned status %d", resp.StatusCode)),
			ErrGatewayUnavailable,
		)
	}

	var decoded chapaInitializeResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errs.Mark(errs.Wrap(err, "failed to decode initialize response"), ErrGatewayUnavailable)
	}

	if resp.StatusCode != http.StatusOK || decoded.Status != "success" {
		return nil, errs.Mark(
			errs.New(fmt.Sprintf("initialize rejected: status=%d message=%s", resp.StatusCode, decoded.Message)),
			ErrGatewayRejected,
		)
	}

	if decoded.Data.CheckoutURL == "" {
		return nil, errs.Mark(errs.New("initialize response missing checkout URL"), ErrGatewayRejected)
	}

	return &InitiateResult{CheckoutURL: decoded.Data.CheckoutURL}, nil
}

// post sends the initialize request, retrying once when the transport itself
// fails before any HTTP response arrives. A received response is returned to
// the caller as-is regardless of its status; those are never retried.
func (g *ChapaGateway) post(ctx context.Context, payload []byte) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
			g.baseURL+"/v1/transaction/initialize", bytes.NewReader(payload))
		if err != nil {
			return nil, errs.Wrap(err, "failed to build initialize request")
		}
		httpReq.Header.Set("Authorization", "Bearer "+g.secretKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := g.client.Do(httpReq)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	return nil, errs.Mark(errs.Wrap(lastErr, "initialize call failed"), ErrGatewayUnavailable)
}
