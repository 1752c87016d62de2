//go:build unit

package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"travelnest/internal/infra/gateway"
	"travelnest/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(baseURL string) *gateway.ChapaGateway {
	return gateway.NewChapaGateway(config.PaymentConfig{
		GatewayBaseURL: baseURL,
		SecretKey:      "test-secret",
		CallbackURL:    "https://api.example.com/api/payments/callback",
		Currency:       "ETB",
		Timeout:        2 * time.Second,
	})
}

func initiateReq() gateway.InitiateRequest {
	return gateway.InitiateRequest{
		AmountCents: 45000,
		Currency:    "ETB",
		Email:       "guest@example.com",
		FirstName:   "Test",
		LastName:    "Guest",
		TxRef:       "11111111-2222-3333-4444-555555555555",
		CallbackURL: "https://api.example.com/api/payments/callback",
	}
}

func TestChapaGatewayInitiate(t *testing.T) {
	t.Run("成功時はcheckout_urlを返す", func(t *testing.T) {
		var gotAuth string
		var gotBody map[string]any

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/transaction/initialize", r.URL.Path)
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  "success",
				"message": "Hosted Link",
				"data": map[string]any{
					"checkout_url": "https://checkout.chapa.co/checkout/payment/xyz",
				},
			})
		}))
		defer srv.Close()

		result, err := newGateway(srv.URL).Initiate(context.Background(), initiateReq())
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.chapa.co/checkout/payment/xyz", result.CheckoutURL)

		assert.Equal(t, "Bearer test-secret", gotAuth)
		// 金額はセントから小数表記の文字列へ変換される
		assert.Equal(t, "450.00", gotBody["amount"])
		assert.Equal(t, "ETB", gotBody["currency"])
		assert.Equal(t, "11111111-2222-3333-4444-555555555555", gotBody["tx_ref"])
	})

	t.Run("トランスポート断は一度だけ再試行する", func(t *testing.T) {
		var calls atomic.Int32
		var gotBody map[string]any

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				// 応答を返さずに接続を切り、トランスポートエラーを起こす
				conn, _, err := w.(http.Hijacker).Hijack()
				require.NoError(t, err)
				_ = conn.Close()
				return
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"data": map[string]any{
					"checkout_url": "https://checkout.chapa.co/checkout/payment/retry",
				},
			})
		}))
		defer srv.Close()

		result, err := newGateway(srv.URL).Initiate(context.Background(), initiateReq())
		require.NoError(t, err)
		assert.Equal(t, "https://checkout.chapa.co/checkout/payment/retry", result.CheckoutURL)
		assert.Equal(t, int32(2), calls.Load())
		// 再送リクエストにもボディが載っている
		assert.Equal(t, "450.00", gotBody["amount"])
	})

	t.Run("HTTP応答が返った場合は再試行しない", func(t *testing.T) {
		var calls atomic.Int32

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newGateway(srv.URL).Initiate(context.Background(), initiateReq())
		require.ErrorIs(t, err, gateway.ErrGatewayUnavailable)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("5xxはErrGatewayUnavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newGateway(srv.URL).Initiate(context.Background(), initiateReq())
		require.ErrorIs(t, err, gateway.ErrGatewayUnavailable)
	})

	t.Run("接続不能はErrGatewayUnavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		srv.Close()

		_, err := newGateway(srv.URL).Initiate(context.Background(), initiateReq())
		require.ErrorIs(t, err, gateway.ErrGatewayUnavailable)
	})

	t.Run("4xxはErrGatewayRejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  "failed",
				"message": "Invalid currency",
			})
		}))
		defer srv.Close()

		_, err := newGateway(srv.URL).Initiate(context.Background(), initiateReq())
		require.ErrorIs(t, err, gateway.ErrGatewayRejected)
	})

	t.Run("statusがsuccess以外はErrGatewayRejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status":  "failed",
				"message": "Insufficient merchant balance",
			})
		}))
		defer srv.Close()

		_, err := newGateway(srv.URL).Initiate(context.Background(), initiateReq())
		require.ErrorIs(t, err, gateway.ErrGatewayRejected)
	})

	t.Run("checkout_url欠落はErrGatewayRejected", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "success",
				"data":   map[string]any{},
			})
		}))
		defer srv.Close()

		_, err := newGateway(srv.URL).Initiate(context.Background(), initiateReq())
		require.ErrorIs(t, err, gateway.ErrGatewayRejected)
	})
}
