package timer

import (
	"context"
	"errors"
	"sync"
	"time"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// ErrClosed is returned when a closed countdown is started.
var ErrClosed = errors.New("countdown is closed")

// DefaultInterval is the wall-clock length of one tick.
const DefaultInterval = time.Second

// ExpireFunc is called once per run when the countdown reaches zero.
type ExpireFunc func(ctx context.Context, state domain.TimerState)

// Option configures a Countdown.
type Option func(*Countdown)

// WithInterval sets the tick cadence.
func WithInterval(interval time.Duration) Option {
	return func(c *Countdown) {
		if interval > 0 {
			c.interval = interval
		}
	}
}

// WithMaxMinutes bounds the duration accepted by Start.
func WithMaxMinutes(minutes int) Option {
	return func(c *Countdown) {
		c.controller = NewController(minutes)
	}
}

// OnExpire registers the expiry callback.
func OnExpire(fn ExpireFunc) Option {
	return func(c *Countdown) {
		c.onExpire = fn
	}
}

// Countdown runs a Controller on a ticker goroutine.
//
// At most one ticker goroutine is live at a time. Every run is tagged with a
// generation number, and a goroutine whose generation is stale stops without
// touching the controller.
type Countdown struct {
	// base outlives individual requests and parents every run.
	base     context.Context
	interval time.Duration
	onExpire ExpireFunc

	// mu guards every field below.
	mu         sync.Mutex
	controller *Controller
	generation uint64
	stop       context.CancelFunc
	closed     bool

	// wg tracks ticker goroutines for Close.
	wg sync.WaitGroup
}

// New creates an idle countdown whose runs derive from ctx.
func New(ctx context.Context, opts ...Option) *Countdown {
	c := &Countdown{
		base:       ctx,
		interval:   DefaultInterval,
		controller: NewController(0),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Start begins a new countdown of minutes, or resumes a paused one.
// A running or expired countdown is left as is.
func (c *Countdown) Start(minutes int) (domain.TimerState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return c.controller.State(), ErrClosed
	}

	started, err := c.controller.Start(minutes)
	if err != nil {
		return c.controller.State(), err
	}

	if started {
		c.launchLocked()
	}

	return c.controller.State(), nil
}

// Resume continues a paused countdown.
func (c *Countdown) Resume() (domain.TimerState, error) {
	return c.Start(0)
}

// Pause stops ticking and keeps the remaining time.
func (c *Countdown) Pause() domain.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.controller.Pause() {
		c.haltLocked()
	}

	return c.controller.State()
}

// Reset stops ticking and returns to idle.
func (c *Countdown) Reset() domain.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.controller.Reset()
	c.haltLocked()

	return c.controller.State()
}

// State returns the current snapshot.
func (c *Countdown) State() domain.TimerState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.controller.State()
}

// Close stops ticking and waits for the ticker goroutine to exit.
// The state is kept so it can still be read.
func (c *Countdown) Close() {
	c.mu.Lock()
	c.closed = true
	c.haltLocked()
	c.mu.Unlock()

	c.wg.Wait()
}

// launchLocked starts a ticker goroutine for a new generation.
func (c *Countdown) launchLocked() {
	c.haltLocked()

	ctx, cancel := context.WithCancel(c.base)
	c.stop = cancel
	generation := c.generation

	c.wg.Add(1)

	go c.run(ctx, generation)
}

// haltLocked cancels the live goroutine and invalidates its generation.
func (c *Countdown) haltLocked() {
	if c.stop != nil {
		c.stop()
		c.stop = nil
	}

	c.generation++
}

func (c *Countdown) run(ctx context.Context, generation uint64) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			state, expired, current := c.tick(generation)
			if !current {
				return
			}

			if expired {
				if c.onExpire != nil {
					c.onExpire(c.base, state)
				}

				return
			}
		}
	}
}

// tick advances the controller if generation is still live.
func (c *Countdown) tick(generation uint64) (domain.TimerState, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return c.controller.State(), false, false
	}

	expired := c.controller.Tick()
	if expired {
		c.haltLocked()
	}

	return c.controller.State(), expired, true
}
