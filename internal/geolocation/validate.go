package geolocation

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

const (
	maxLatitude  = 90
	maxLongitude = 180
)

//nolint:gochecknoglobals // Validator caches struct metadata, one instance is enough.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails on an empty tag or a nil function.
	_ = v.RegisterValidation("lat", func(fl validator.FieldLevel) bool {
		lat := fl.Field().Float()
		return !math.IsNaN(lat) && lat >= -maxLatitude && lat <= maxLatitude
	})
	_ = v.RegisterValidation("lng", func(fl validator.FieldLevel) bool {
		lng := fl.Field().Float()
		return !math.IsNaN(lng) && lng >= -maxLongitude && lng <= maxLongitude
	})

	return v
}

// Validate checks that the sample holds real coordinates.
func Validate(sample domain.LocationSample) error {
	if err := validate.Struct(sample); err != nil {
		return fmt.Errorf("%w: invalid coordinates %s: %w", domain.ErrLocationUnavailable, sample, err)
	}

	return nil
}
