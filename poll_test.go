package reactor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvents_ImplicitBitsAlwaysDistinctFromExplicit(t *testing.T) {
	require.Equal(t, EventError|EventHangup, implicitEvents)
	require.Zero(t, implicitEvents&(EventRead|EventWrite))
}
