package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/paystream/payments-engine/internal/models"
	"github.com/paystream/payments-engine/internal/services"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Outcome values reported for a submitted transaction.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeIgnored  = "ignored"
)

// TransactionHandler exposes the payment engine over HTTP. Submissions go
// through the serial worker so arrival order is preserved under concurrency.
type TransactionHandler struct {
	worker    *services.EngineWorker
	engine    *services.PaymentEngine
	validator *validator.Validate
	logger    *zap.Logger
}

func NewTransactionHandler(worker *services.EngineWorker, engine *services.PaymentEngine, logger *zap.Logger) *TransactionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionHandler{
		worker:    worker,
		engine:    engine,
		validator: validator.New(),
		logger:    logger,
	}
}

type transactionRequest struct {
	Type   string `json:"type" validate:"required,oneof=deposit withdrawal dispute resolve chargeback"`
	Client uint16 `json:"client" validate:"gt=0"`
	Tx     uint32 `json:"tx" validate:"required"`
	Amount string `json:"amount,omitempty"`
}

type transactionResponse struct {
	Outcome string                  `json:"outcome"`
	Reason  string                  `json:"reason,omitempty"`
	Account *models.AccountSnapshot `json:"account,omitempty"`
}

// SubmitTransaction applies one transaction record.
func (h *TransactionHandler) SubmitTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		respondError(w, http.StatusBadRequest, "Request body must only contain a single JSON object", nil)
		return
	}
	if err := h.validator.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Validation failed", err)
		return
	}

	tx, err := h.toTransaction(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	err = h.worker.Apply(r.Context(), tx)
	switch {
	case err == nil:
		h.respondOutcome(w, http.StatusOK, OutcomeApplied, nil, tx.Client)
	case services.IsIgnorable(err):
		h.respondOutcome(w, http.StatusOK, OutcomeIgnored, err, tx.Client)
	case services.IsRejection(err):
		h.respondOutcome(w, http.StatusConflict, OutcomeRejected, err, tx.Client)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "Engine unavailable", nil)
	default:
		h.logger.Error("transaction submission failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

func (h *TransactionHandler) toTransaction(req transactionRequest) (models.Transaction, error) {
	tx := models.Transaction{
		Type:   models.TransactionType(req.Type),
		Client: models.ClientID(req.Client),
		Tx:     models.TxID(req.Tx),
	}
	if tx.Type.HasAmount() {
		if req.Amount == "" {
			return models.Transaction{}, errors.New("amount is required for deposits and withdrawals")
		}
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return models.Transaction{}, errors.New("amount is not a valid decimal")
		}
		tx.Amount = amount
	} else if req.Amount != "" {
		return models.Transaction{}, errors.New("amount is not allowed on " + req.Type + " records")
	}
	return tx, nil
}

func (h *TransactionHandler) respondOutcome(w http.ResponseWriter, status int, outcome string, cause error, client models.ClientID) {
	resp := transactionResponse{Outcome: outcome}
	if cause != nil {
		resp.Reason = cause.Error()
	}
	if snapshot, ok := h.engine.Account(client); ok {
		resp.Account = &snapshot
	}
	writeJSON(w, status, resp)
}

// ListAccounts returns every account snapshot, sorted by client id.
func (h *TransactionHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": h.engine.Accounts(),
	})
}

// GetAccount returns the snapshot for one client.
func (h *TransactionHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "clientID")
	id, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid client id", nil)
		return
	}
	snapshot, ok := h.engine.Account(models.ClientID(id))
	if !ok {
		respondError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}
