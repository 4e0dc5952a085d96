package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), "", "test", zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_Enabled(t *testing.T) {
	// the gRPC client connects lazily, so no collector is needed to build the provider
	shutdown, err := Init(context.Background(), "127.0.0.1:4317", "test", zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
