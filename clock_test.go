package reactor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClockCache_StableUntilFlush(t *testing.T) {
	var c clockCache
	first := c.now()
	time.Sleep(2 * time.Millisecond)
	second := c.now()
	require.Equal(t, first, second)

	c.flush()
	time.Sleep(2 * time.Millisecond)
	third := c.now()
	require.True(t, third.After(first))
}
