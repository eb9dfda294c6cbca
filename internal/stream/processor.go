package stream

import (
	"context"
	"errors"
	"io"

	"github.com/paystream/payments-engine/internal/services"
	"go.uber.org/zap"
)

// Stats counts per-record outcomes for one processing run.
type Stats struct {
	Applied   uint64
	Rejected  uint64
	Ignored   uint64
	Malformed uint64
}

// Process drains the record source into the engine, one record at a time.
// Malformed, rejected and ignored records are counted and skipped; only a
// stream-level failure (or ctx cancellation) ends the run early. The engine
// keeps everything applied up to that point, so the caller can still emit a
// partial snapshot.
func Process(ctx context.Context, r *Reader, engine *services.PaymentEngine, logger *zap.Logger) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		tx, err := r.Next()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if errors.Is(err, ErrMalformedRecord) {
			stats.Malformed++
			logger.Warn("skipping malformed record", zap.Error(err))
			continue
		}
		if err != nil {
			return stats, err
		}

		switch applyErr := engine.Process(tx); {
		case applyErr == nil:
			stats.Applied++
		case services.IsIgnorable(applyErr):
			stats.Ignored++
		case services.IsRejection(applyErr):
			stats.Rejected++
		default:
			// Unknown record types are filtered at parse time, so this only
			// fires on records built programmatically.
			stats.Rejected++
			logger.Error("unexpected apply failure", zap.Error(applyErr))
		}
	}
}
