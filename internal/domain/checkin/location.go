package checkin

import "fmt"

// LocationSample is a single position reading.
type LocationSample struct {
	Latitude  float64 `json:"latitude"  validate:"lat"`
	Longitude float64 `json:"longitude" validate:"lng"`
}

// String renders the sample as "lat,lng" with six decimals.
func (l LocationSample) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.Latitude, l.Longitude)
}
