package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/paystream/payments-engine/internal/config"
	"github.com/paystream/payments-engine/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*chi.Mux, *services.PaymentEngine) {
	t.Helper()

	engine := services.NewPaymentEngine(config.EngineConfig{OutputPrecision: 4}, zap.NewNop())
	worker := services.NewEngineWorker(engine, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	worker.Start(ctx)

	handler := NewTransactionHandler(worker, engine, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/v1/transactions", handler.SubmitTransaction)
	r.Get("/api/v1/accounts", handler.ListAccounts)
	r.Get("/api/v1/accounts/{clientID}", handler.GetAccount)
	return r, engine
}

func submit(t *testing.T, router *chi.Mux, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSubmitTransaction_Deposit(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := submit(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"1.5"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, OutcomeApplied, body["outcome"])

	account := body["account"].(map[string]any)
	assert.Equal(t, "1.5", account["available"])
	assert.Equal(t, false, account["locked"])
}

func TestSubmitTransaction_RejectedWithdrawal(t *testing.T) {
	router, _ := newTestRouter(t)

	submit(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"1.0"}`)
	rec := submit(t, router, `{"type":"withdrawal","client":1,"tx":2,"amount":"5.0"}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, OutcomeRejected, body["outcome"])
	assert.Contains(t, body["reason"], "insufficient")
}

func TestSubmitTransaction_IgnoredReference(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := submit(t, router, `{"type":"dispute","client":1,"tx":99}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeResponse(t, rec)
	assert.Equal(t, OutcomeIgnored, body["outcome"])
}

func TestSubmitTransaction_Validation(t *testing.T) {
	router, _ := newTestRouter(t)

	t.Run("unknown type", func(t *testing.T) {
		rec := submit(t, router, `{"type":"teleport","client":1,"tx":1,"amount":"1.0"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("zero client", func(t *testing.T) {
		rec := submit(t, router, `{"type":"deposit","client":0,"tx":1,"amount":"1.0"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deposit without amount", func(t *testing.T) {
		rec := submit(t, router, `{"type":"deposit","client":1,"tx":1}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("dispute with amount", func(t *testing.T) {
		rec := submit(t, router, `{"type":"dispute","client":1,"tx":1,"amount":"1.0"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad decimal", func(t *testing.T) {
		rec := submit(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"one"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := submit(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"1.0","extra":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("trailing garbage", func(t *testing.T) {
		rec := submit(t, router, `{"type":"deposit","client":1,"tx":1,"amount":"1.0"}{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListAccounts(t *testing.T) {
	router, _ := newTestRouter(t)

	submit(t, router, `{"type":"deposit","client":2,"tx":1,"amount":"2.0"}`)
	submit(t, router, `{"type":"deposit","client":1,"tx":2,"amount":"1.0"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeResponse(t, rec)
	accounts := body["accounts"].([]any)
	require.Len(t, accounts, 2)

	first := accounts[0].(map[string]any)
	assert.Equal(t, float64(1), first["client"])
}

func TestGetAccount(t *testing.T) {
	router, _ := newTestRouter(t)
	submit(t, router, `{"type":"deposit","client":7,"tx":1,"amount":"3.25"}`)

	t.Run("existing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/7", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeResponse(t, rec)
		assert.Equal(t, "3.25", body["available"])
		assert.Equal(t, "3.25", body["total"])
	})

	t.Run("unknown client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/8", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-numeric client", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
