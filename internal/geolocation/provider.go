package geolocation

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// Provider returns the current position of the caller.
type Provider interface {
	CurrentPosition(ctx context.Context) (domain.LocationSample, error)
}

// errNoSample is returned by Static when nothing was configured.
var errNoSample = errors.New("no location configured")

// Static returns a sample fixed at construction, typically from settings.
type Static struct {
	// sample is nil when no location was configured.
	sample *domain.LocationSample
}

// NewStatic creates a provider for the given sample. A nil sample yields a
// provider that always reports the location as unavailable.
func NewStatic(sample *domain.LocationSample) *Static {
	if sample == nil {
		return &Static{}
	}

	cloned := *sample

	return &Static{sample: &cloned}
}

// CurrentPosition returns the configured sample after validation.
func (s *Static) CurrentPosition(ctx context.Context) (domain.LocationSample, error) {
	if err := ctx.Err(); err != nil {
		return domain.LocationSample{}, fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, err)
	}

	if s == nil || s.sample == nil {
		return domain.LocationSample{}, fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, errNoSample)
	}

	if err := Validate(*s.sample); err != nil {
		return domain.LocationSample{}, err
	}

	return *s.sample, nil
}

// Fixed builds a provider for coordinates supplied with a request or flags.
func Fixed(latitude, longitude float64) *Static {
	return NewStatic(&domain.LocationSample{
		Latitude:  latitude,
		Longitude: longitude,
	})
}

// Func adapts a plain function to the Provider interface.
type Func func(ctx context.Context) (domain.LocationSample, error)

// CurrentPosition calls f.
func (f Func) CurrentPosition(ctx context.Context) (domain.LocationSample, error) {
	return f(ctx)
}

// Chain tries each provider once, in order, and returns the first success.
type Chain []Provider

// CurrentPosition returns the first valid sample. When all providers fail
// the returned error wraps ErrLocationUnavailable and every cause.
func (c Chain) CurrentPosition(ctx context.Context) (domain.LocationSample, error) {
	var causes []error

	for _, provider := range c {
		if provider == nil {
			continue
		}

		sample, err := provider.CurrentPosition(ctx)
		if err != nil {
			causes = append(causes, err)
			continue
		}

		if err = Validate(sample); err != nil {
			causes = append(causes, err)
			continue
		}

		return sample, nil
	}

	if len(causes) == 0 {
		return domain.LocationSample{}, fmt.Errorf("%w: no provider configured", domain.ErrLocationUnavailable)
	}

	return domain.LocationSample{}, fmt.Errorf("%w: %w", domain.ErrLocationUnavailable, errors.Join(causes...))
}
