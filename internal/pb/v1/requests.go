package pb

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// NewActorRequest builds a request carrying only the actor.
// PauseTimer, ResetTimer and GetTimerState use it.
func NewActorRequest(actor *domain.Actor) *structpb.Struct {
	fields := make(map[string]*structpb.Value, 1)
	if encoded := EncodeActor(actor); encoded != nil {
		fields[FieldActor] = structpb.NewStructValue(encoded)
	}

	return &structpb.Struct{Fields: fields}
}

// NewStartTimerRequest builds a StartTimer request. Zero minutes resumes.
func NewStartTimerRequest(actor *domain.Actor, minutes int) *structpb.Struct {
	request := NewActorRequest(actor)
	request.Fields[FieldDurationMinutes] = structpb.NewNumberValue(float64(minutes))

	return request
}

// NewTriggerAlertRequest builds a TriggerAlert request. A nil location asks
// the server to resolve the position itself.
func NewTriggerAlertRequest(actor *domain.Actor, location *domain.LocationSample) *structpb.Struct {
	request := NewActorRequest(actor)
	if encoded := EncodeLocation(location); encoded != nil {
		request.Fields[FieldLocation] = structpb.NewStructValue(encoded)
	}

	return request
}

// RequestActor extracts the actor of any request.
func RequestActor(request *structpb.Struct) *domain.Actor {
	return DecodeActor(structField(request, FieldActor))
}

// RequestDurationMinutes extracts the StartTimer duration. A missing duration
// is zero. Anything but a whole, non-negative number of minutes wraps
// ErrInvalidDuration.
func RequestDurationMinutes(request *structpb.Struct) (int, error) {
	if _, ok := request.GetFields()[FieldDurationMinutes]; !ok {
		return 0, nil
	}

	minutes, ok := numberField(request, FieldDurationMinutes)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidDuration, FieldDurationMinutes)
	}

	if minutes < 0 || minutes > math.MaxInt32 || minutes != math.Trunc(minutes) {
		return 0, fmt.Errorf("%w: %v minutes", domain.ErrInvalidDuration, minutes)
	}

	return int(minutes), nil
}

// RequestLocation extracts the optional TriggerAlert location.
func RequestLocation(request *structpb.Struct) (*domain.LocationSample, error) {
	return DecodeLocation(structField(request, FieldLocation))
}
