package services

import (
	"context"

	"github.com/paystream/payments-engine/internal/models"
	"go.uber.org/zap"
)

type applyRequest struct {
	tx   models.Transaction
	resp chan error
}

// EngineWorker funnels all transaction applications through one goroutine so
// that concurrent HTTP submissions are still applied strictly in arrival
// order, matching the single-stream processing model of the batch path.
type EngineWorker struct {
	engine *PaymentEngine
	queue  chan applyRequest
	logger *zap.Logger
}

func NewEngineWorker(engine *PaymentEngine, logger *zap.Logger) *EngineWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EngineWorker{
		engine: engine,
		queue:  make(chan applyRequest, 1024),
		logger: logger,
	}
}

// Start launches the worker loop. It exits when ctx is cancelled.
func (w *EngineWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *EngineWorker) run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("engine worker panic", zap.Any("reason", r))
		}
	}()

	w.logger.Info("engine worker starting")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("engine worker stopping")
			return
		case req := <-w.queue:
			req.resp <- w.engine.Process(req.tx)
		}
	}
}

// Apply submits one transaction and waits for its outcome.
func (w *EngineWorker) Apply(ctx context.Context, tx models.Transaction) error {
	resp := make(chan error, 1)
	select {
	case w.queue <- applyRequest{tx: tx, resp: resp}:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-resp:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
