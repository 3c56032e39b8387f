package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// Notifier delivers a notice to a single sink.
type Notifier interface {
	Notify(ctx context.Context, notice *domain.Notice) error
}

// Func adapts a plain function to the Notifier interface.
type Func func(ctx context.Context, notice *domain.Notice) error

// Notify calls f.
func (f Func) Notify(ctx context.Context, notice *domain.Notice) error {
	return f(ctx, notice)
}

// Fanout delivers each notice to every sink concurrently.
type Fanout []Notifier

// Notify calls every sink at once, waits for all of them and returns the
// combined error in sink order. A slow sink does not hold back the others.
func (f Fanout) Notify(ctx context.Context, notice *domain.Notice) error {
	var (
		errs = make([]error, len(f))
		wg   sync.WaitGroup
	)

	for i, sink := range f {
		if sink == nil {
			continue
		}

		wg.Go(func() {
			errs[i] = sink.Notify(ctx, notice)
		})
	}

	wg.Wait()

	return multierr.Combine(errs...)
}

// encode renders the JSON body shared by the network sinks.
func encode(notice *domain.Notice) ([]byte, error) {
	body, err := json.Marshal(notice)
	if err != nil {
		return nil, fmt.Errorf("marshal notice: %w", err)
	}

	return body, nil
}
