package stream

import (
	"context"
	"strings"
	"testing"

	"github.com/paystream/payments-engine/internal/config"
	"github.com/paystream/payments-engine/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newEngine() *services.PaymentEngine {
	return services.NewPaymentEngine(config.EngineConfig{OutputPrecision: 4}, zap.NewNop())
}

func TestProcess_EndToEnd(t *testing.T) {
	input := "type,client,tx,amount\n" +
		"deposit,1,1,1.0\n" +
		"deposit,2,2,2.0\n" +
		"deposit,1,3,2.0\n" +
		"withdrawal,1,4,1.5\n" +
		"withdrawal,2,5,3.0\n" + // insufficient funds
		"dispute,1,99,\n" + // unknown reference
		"not-a-row\n" + // malformed
		"dispute,1,1,\n" +
		"chargeback,1,1,\n"

	engine := newEngine()
	stats, err := Process(context.Background(), NewReader(strings.NewReader(input)), engine, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, uint64(6), stats.Applied)
	assert.Equal(t, uint64(1), stats.Rejected)
	assert.Equal(t, uint64(1), stats.Ignored)
	assert.Equal(t, uint64(1), stats.Malformed)

	var sb strings.Builder
	require.NoError(t, NewWriter(&sb, 4).WriteSnapshot(engine.Accounts()))
	want := "client,available,held,total,locked\n" +
		"1,0.5000,0.0000,0.5000,true\n" +
		"2,2.0000,0.0000,2.0000,false\n"
	assert.Equal(t, want, sb.String())
}

func TestProcess_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := Process(ctx, NewReader(strings.NewReader("deposit,1,1,1.0\n")), newEngine(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, uint64(0), stats.Applied)
}

func TestProcess_EmptyStream(t *testing.T) {
	stats, err := Process(context.Background(), NewReader(strings.NewReader("")), newEngine(), nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}
