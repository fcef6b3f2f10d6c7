package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveLoopOptions_Defaults(t *testing.T) {
	cfg := resolveLoopOptions(nil)
	require.Equal(t, time.Second, cfg.coarseResolution)
	require.Equal(t, 2*time.Minute, cfg.coarseSpan)
	require.NotNil(t, cfg.logger)
	require.False(t, cfg.assertInvariants)
}

func TestResolveLoopOptions_Overrides(t *testing.T) {
	logger := defaultLogger()
	cfg := resolveLoopOptions([]LoopOption{
		WithLogger(logger),
		WithCoarseTimerResolution(10*time.Millisecond, 200*time.Millisecond),
		WithInvariantAssertions(true),
	})
	require.Same(t, logger, cfg.logger)
	require.Equal(t, 10*time.Millisecond, cfg.coarseResolution)
	require.Equal(t, 200*time.Millisecond, cfg.coarseSpan)
	require.True(t, cfg.assertInvariants)
}

func TestWithCoarseTimerResolution_IgnoresNonPositive(t *testing.T) {
	cfg := resolveLoopOptions([]LoopOption{
		WithCoarseTimerResolution(0, 0),
	})
	require.Equal(t, time.Second, cfg.coarseResolution)
	require.Equal(t, 2*time.Minute, cfg.coarseSpan)
}

func TestWithLogger_IgnoresNil(t *testing.T) {
	cfg := resolveLoopOptions([]LoopOption{WithLogger(nil)})
	require.NotNil(t, cfg.logger)
}
