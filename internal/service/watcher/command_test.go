package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	"github.com/oshokin/safety-checkin/internal/timer"
)

var errTestUnavailable = errors.New("server unavailable")

// countdownAPI answers from a real countdown, failing the first call.
type countdownAPI struct {
	countdown *timer.Countdown

	mu     sync.Mutex
	calls  int
	failed bool
}

func (c *countdownAPI) GetTimerState(context.Context, *domain.Actor) (domain.TimerState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if !c.failed {
		c.failed = true

		return domain.TimerState{}, errTestUnavailable
	}

	return c.countdown.State(), nil
}

var testActor = &domain.Actor{Hostname: "field-laptop", Username: "o.shokin"}

// TestWatch_ReturnsOnExpiry follows a one-minute countdown to its end.
func TestWatch_ReturnsOnExpiry(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		countdown := timer.New(context.Background())
		defer countdown.Close()

		_, err := countdown.Start(1)
		require.NoError(t, err)

		// Keep polls off tick boundaries.
		time.Sleep(500 * time.Millisecond)

		api := &countdownAPI{countdown: countdown}
		started := time.Now()

		state, err := Watch(context.Background(), api, testActor, 10*time.Second)
		require.NoError(t, err)
		require.Equal(t, domain.TimerStatusExpired, state.Status)
		require.Equal(t, 60*time.Second, time.Since(started))
		require.Equal(t, 7, api.calls)
	})
}

// TestWatch_StopsOnCancel exits cleanly when the context ends.
func TestWatch_StopsOnCancel(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		countdown := timer.New(context.Background())
		defer countdown.Close()

		_, err := countdown.Start(30)
		require.NoError(t, err)

		time.Sleep(500 * time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 12*time.Second)
		defer cancel()

		state, err := Watch(ctx, &countdownAPI{countdown: countdown, failed: true}, testActor, 5*time.Second)
		require.NoError(t, err)
		require.Equal(t, domain.TimerStatusRunning, state.Status)
		require.Equal(t, 30*60-10, state.RemainingSeconds)
	})
}
