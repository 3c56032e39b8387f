package timer

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// halfTick keeps sleeps away from tick boundaries.
const halfTick = DefaultInterval / 2

// TestCountdown_ExpiresOnceAfterOneMinute runs start(1) for sixty ticks.
func TestCountdown_ExpiresOnceAfterOneMinute(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var (
			fired    atomic.Int32
			reported atomic.Value
		)

		c := New(context.Background(), OnExpire(func(_ context.Context, state domain.TimerState) {
			reported.Store(state)
			fired.Add(1)
		}))
		defer c.Close()

		_, err := c.Start(1)
		require.NoError(t, err)

		time.Sleep(59*time.Second + halfTick)
		synctest.Wait()

		require.Equal(t, 1, c.State().RemainingSeconds)
		require.Zero(t, fired.Load())

		time.Sleep(time.Second)
		synctest.Wait()

		require.Equal(t, domain.TimerStatusExpired, c.State().Status)
		require.False(t, c.State().IsActive)
		require.EqualValues(t, 1, fired.Load())
		require.Equal(t, c.State(), reported.Load())

		// Nothing keeps ticking after expiry.
		time.Sleep(time.Minute)
		synctest.Wait()
		require.EqualValues(t, 1, fired.Load())
	})
}

// TestCountdown_PauseThenResume covers start(30), pause at 20 and resume.
func TestCountdown_PauseThenResume(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		c := New(context.Background(), WithMaxMinutes(60))
		defer c.Close()

		_, err := c.Start(30)
		require.NoError(t, err)

		time.Sleep((30*60-20)*time.Second + halfTick)
		synctest.Wait()

		state := c.Pause()
		require.Equal(t, domain.TimerStatusPaused, state.Status)
		require.Equal(t, 20, state.RemainingSeconds)

		// Paused countdown does not tick.
		time.Sleep(10 * time.Second)
		synctest.Wait()
		require.Equal(t, 20, c.State().RemainingSeconds)

		state, err = c.Resume()
		require.NoError(t, err)
		require.Equal(t, domain.TimerStatusRunning, state.Status)
		require.Equal(t, 20, state.RemainingSeconds)

		time.Sleep(time.Second + halfTick)
		synctest.Wait()
		require.Equal(t, 19, c.State().RemainingSeconds)
	})
}

// TestCountdown_RestartDoesNotDoubleTick ensures superseded goroutines never tick.
func TestCountdown_RestartDoesNotDoubleTick(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		c := New(context.Background())
		defer c.Close()

		_, err := c.Start(1)
		require.NoError(t, err)

		time.Sleep(10*time.Second + halfTick)
		synctest.Wait()
		require.Equal(t, 50, c.State().RemainingSeconds)

		for range 3 {
			c.Pause()

			_, err = c.Resume()
			require.NoError(t, err)
		}

		time.Sleep(10 * time.Second)
		synctest.Wait()
		require.Equal(t, 40, c.State().RemainingSeconds)
	})
}

// TestCountdown_ResetStopsTicking verifies reset from a running countdown.
func TestCountdown_ResetStopsTicking(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var fired atomic.Int32

		c := New(context.Background(), OnExpire(func(context.Context, domain.TimerState) {
			fired.Add(1)
		}))
		defer c.Close()

		_, err := c.Start(1)
		require.NoError(t, err)

		time.Sleep(30 * time.Second)

		state := c.Reset()
		require.Equal(t, domain.IdleState(), state)

		time.Sleep(2 * time.Minute)
		synctest.Wait()

		require.Equal(t, domain.IdleState(), c.State())
		require.Zero(t, fired.Load())
	})
}

// TestCountdown_ExpireCallbackMayReset checks that the callback can re-enter the countdown.
func TestCountdown_ExpireCallbackMayReset(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var c *Countdown

		c = New(context.Background(), WithInterval(10*time.Millisecond), OnExpire(func(context.Context, domain.TimerState) {
			c.Reset()
		}))
		defer c.Close()

		_, err := c.Start(1)
		require.NoError(t, err)

		time.Sleep(time.Second)
		synctest.Wait()

		require.Equal(t, domain.IdleState(), c.State())
	})
}

// TestCountdown_CloseRejectsStart verifies closed countdowns refuse new runs.
func TestCountdown_CloseRejectsStart(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		c := New(context.Background())

		_, err := c.Start(5)
		require.NoError(t, err)

		c.Close()

		state := c.State()
		require.Equal(t, domain.TimerStatusRunning, state.Status)

		_, err = c.Start(5)
		require.ErrorIs(t, err, ErrClosed)

		time.Sleep(time.Minute)
		synctest.Wait()
		require.Equal(t, state, c.State())
	})
}

// TestCountdown_BaseContextCancel stops ticking when the owner goes away.
func TestCountdown_BaseContextCancel(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		c := New(ctx)

		_, err := c.Start(1)
		require.NoError(t, err)

		time.Sleep(5*time.Second + halfTick)
		cancel()
		synctest.Wait()

		time.Sleep(time.Minute)
		synctest.Wait()
		require.Equal(t, 55, c.State().RemainingSeconds)

		c.Close()
	})
}

// TestCountdown_InvalidDuration leaves the countdown idle.
func TestCountdown_InvalidDuration(t *testing.T) {
	t.Parallel()

	c := New(context.Background(), WithMaxMinutes(10))
	defer c.Close()

	state, err := c.Start(11)
	require.ErrorIs(t, err, domain.ErrInvalidDuration)
	require.Equal(t, domain.IdleState(), state)
}
