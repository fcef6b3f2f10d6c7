package reactor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInjectQueue_DrainRunsQueuedCallbacks(t *testing.T) {
	l := &Loop{}
	var ran []int
	var mu sync.Mutex
	mk := func(id int) *InjectEvent {
		return NewInjectEvent(l, func() {
			mu.Lock()
			ran = append(ran, id)
			mu.Unlock()
		})
	}
	a, b := mk(1), mk(2)
	require.True(t, l.inject.schedule(a))
	require.True(t, l.inject.schedule(b))
	// Already-linked events report no new wake is needed.
	require.False(t, l.inject.schedule(a))

	quit := l.inject.drain()
	require.False(t, quit)
	require.Equal(t, []int{1, 2}, ran)
}

func TestInjectQueue_RequestQuitCoalesces(t *testing.T) {
	l := &Loop{}
	require.True(t, l.inject.requestQuit())
	require.False(t, l.inject.requestQuit())

	quit := l.inject.drain()
	require.True(t, quit)

	// Cleared after drain.
	require.True(t, l.inject.requestQuit())
}

func TestInjectQueue_CancelBeforeDrain(t *testing.T) {
	l := &Loop{}
	fired := false
	e := NewInjectEvent(l, func() { fired = true })
	require.True(t, l.inject.schedule(e))
	l.inject.cancel(e)

	l.inject.drain()
	require.False(t, fired)
}

func TestInjectQueue_ConcurrentSchedule(t *testing.T) {
	l := &Loop{}
	const n = 64
	var mu sync.Mutex
	count := 0
	events := make([]*InjectEvent, n)
	for i := range events {
		events[i] = NewInjectEvent(l, func() {
			mu.Lock()
			count++
			mu.Unlock()
		})
	}

	var wg sync.WaitGroup
	for _, e := range events {
		wg.Add(1)
		go func(e *InjectEvent) {
			defer wg.Done()
			l.inject.schedule(e)
		}(e)
	}
	wg.Wait()

	l.inject.drain()
	require.Equal(t, n, count)
}
