package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when the limiter sleeps or the test calls advance.
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 10, 22, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
	return nil
}

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestLimiter_SpacesTwentyCalls(t *testing.T) {
	clock := newFakeClock()
	interval := 600 * time.Millisecond
	l := New(interval, WithClock(clock.now, clock.sleep))

	var issued []time.Time
	for i := 0; i < 25; i++ {
		// Uneven caller work between requests.
		clock.advance(time.Duration(i%4) * 150 * time.Millisecond)
		require.NoError(t, l.Wait(context.Background()))
		issued = append(issued, clock.now())
	}

	for i := 1; i < len(issued); i++ {
		gap := issued[i].Sub(issued[i-1])
		assert.GreaterOrEqual(t, gap, interval, "requests %d and %d too close", i-1, i)
	}
}

func TestLimiter_FirstCallDoesNotWait(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Second, WithClock(clock.now, clock.sleep))

	require.NoError(t, l.Wait(context.Background()))
	assert.Empty(t, clock.sleeps)
	assert.Equal(t, clock.now(), l.Last())
}

func TestLimiter_NoSleepWhenIntervalAlreadyElapsed(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Second, WithClock(clock.now, clock.sleep))

	require.NoError(t, l.Wait(context.Background()))
	clock.advance(2 * time.Second)
	require.NoError(t, l.Wait(context.Background()))

	assert.Empty(t, clock.sleeps)
}

func TestLimiter_SleepsOnlyRemainder(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Second, WithClock(clock.now, clock.sleep))

	require.NoError(t, l.Wait(context.Background()))
	clock.advance(300 * time.Millisecond)
	require.NoError(t, l.Wait(context.Background()))

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, 700*time.Millisecond, clock.sleeps[0])
}

func TestLimiter_CancelledWaitKeepsLastRequest(t *testing.T) {
	clock := newFakeClock()
	l := New(time.Second, WithClock(clock.now, clock.sleep))

	require.NoError(t, l.Wait(context.Background()))
	first := l.Last()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, first, l.Last())
}

func TestLimiter_IndependentInstances(t *testing.T) {
	clock := newFakeClock()
	a := New(time.Second, WithClock(clock.now, clock.sleep))
	b := New(time.Second, WithClock(clock.now, clock.sleep))

	require.NoError(t, a.Wait(context.Background()))
	require.NoError(t, b.Wait(context.Background()))

	assert.Empty(t, clock.sleeps, "a fresh limiter must not inherit another limiter's state")
}

func TestLimiter_RealClock(t *testing.T) {
	interval := 5 * time.Millisecond
	l := New(interval)

	var issued []time.Time
	for i := 0; i < 20; i++ {
		require.NoError(t, l.Wait(context.Background()))
		issued = append(issued, l.Last())
	}

	for i := 1; i < len(issued); i++ {
		assert.GreaterOrEqual(t, issued[i].Sub(issued[i-1]), interval)
	}
}
