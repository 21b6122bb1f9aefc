package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techgear-support-be/internal/config"
	"techgear-support-be/internal/pkg/logger"
)

func TestInitTracerDisabled(t *testing.T) {
	shutdown := InitTracer(context.Background(), config.OtelConfig{Enabled: false}, "1.0.0", logger.NewNopLogger())

	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
