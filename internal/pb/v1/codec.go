package pb

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// EncodeActor converts an actor into a Struct. Nil stays nil.
func EncodeActor(actor *domain.Actor) *structpb.Struct {
	if actor == nil {
		return nil
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldHostname: structpb.NewStringValue(actor.Hostname),
		FieldUsername: structpb.NewStringValue(actor.Username),
	}}
}

// DecodeActor reads an actor. A missing actor decodes to nil.
func DecodeActor(s *structpb.Struct) *domain.Actor {
	if s == nil {
		return nil
	}

	return &domain.Actor{
		Hostname: stringField(s, FieldHostname),
		Username: stringField(s, FieldUsername),
	}
}

// EncodeTimerState converts a countdown snapshot into a Struct.
func EncodeTimerState(state domain.TimerState) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldStatus:           structpb.NewStringValue(string(state.Status)),
		FieldIsActive:         structpb.NewBoolValue(state.IsActive),
		FieldDurationSeconds:  structpb.NewNumberValue(float64(state.DurationSeconds)),
		FieldRemainingSeconds: structpb.NewNumberValue(float64(state.RemainingSeconds)),
	}}
}

// DecodeTimerState reads a countdown snapshot. Unknown statuses decode as idle.
func DecodeTimerState(s *structpb.Struct) domain.TimerState {
	status, _ := domain.ParseTimerStatus(stringField(s, FieldStatus))

	return domain.TimerState{
		Status:           status,
		IsActive:         s.GetFields()[FieldIsActive].GetBoolValue(),
		DurationSeconds:  intField(s, FieldDurationSeconds),
		RemainingSeconds: intField(s, FieldRemainingSeconds),
	}
}

// EncodeLocation converts a sample into a Struct. Nil stays nil.
func EncodeLocation(sample *domain.LocationSample) *structpb.Struct {
	if sample == nil {
		return nil
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldLatitude:  structpb.NewNumberValue(sample.Latitude),
		FieldLongitude: structpb.NewNumberValue(sample.Longitude),
	}}
}

// DecodeLocation reads a sample. A missing location decodes to nil. A present
// location needs both coordinates as numbers, otherwise the error wraps
// ErrLocationUnavailable.
func DecodeLocation(s *structpb.Struct) (*domain.LocationSample, error) {
	if s == nil {
		return nil, nil //nolint:nilnil // No location is a valid request.
	}

	latitude, ok := numberField(s, FieldLatitude)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrLocationUnavailable, FieldLatitude)
	}

	longitude, ok := numberField(s, FieldLongitude)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrLocationUnavailable, FieldLongitude)
	}

	return &domain.LocationSample{
		Latitude:  latitude,
		Longitude: longitude,
	}, nil
}

// EncodeAlert converts an alert payload into a Struct. Nil stays nil.
func EncodeAlert(alert *domain.EmergencyAlertPayload) *structpb.Struct {
	if alert == nil {
		return nil
	}

	fields := map[string]*structpb.Value{
		FieldID:        structpb.NewStringValue(alert.ID),
		FieldKind:      structpb.NewStringValue(alert.Kind),
		FieldTimestamp: structpb.NewStringValue(alert.Timestamp),
		FieldLocation:  structpb.NewStructValue(EncodeLocation(&alert.Location)),
	}

	if actor := EncodeActor(alert.Actor); actor != nil {
		fields[FieldActor] = structpb.NewStructValue(actor)
	}

	return &structpb.Struct{Fields: fields}
}

// DecodeAlert reads an alert payload. A missing alert decodes to nil.
func DecodeAlert(s *structpb.Struct) *domain.EmergencyAlertPayload {
	if s == nil {
		return nil
	}

	alert := &domain.EmergencyAlertPayload{
		ID:        stringField(s, FieldID),
		Kind:      stringField(s, FieldKind),
		Timestamp: stringField(s, FieldTimestamp),
		Actor:     DecodeActor(structField(s, FieldActor)),
	}

	if location, err := DecodeLocation(structField(s, FieldLocation)); err == nil && location != nil {
		alert.Location = *location
	}

	return alert
}

// EncodeNotice converts a notice into a Struct. Nil stays nil.
func EncodeNotice(notice *domain.Notice) *structpb.Struct {
	if notice == nil {
		return nil
	}

	fields := map[string]*structpb.Value{
		FieldTitle:     structpb.NewStringValue(notice.Title),
		FieldMessage:   structpb.NewStringValue(notice.Message),
		FieldSeverity:  structpb.NewStringValue(string(notice.Severity)),
		FieldCreatedAt: structpb.NewStringValue(notice.CreatedAt.UTC().Format(time.RFC3339Nano)),
	}

	if actor := EncodeActor(notice.Actor); actor != nil {
		fields[FieldActor] = structpb.NewStructValue(actor)
	}

	if alert := EncodeAlert(notice.Alert); alert != nil {
		fields[FieldAlert] = structpb.NewStructValue(alert)
	}

	return &structpb.Struct{Fields: fields}
}

// DecodeNotice reads a notice. An unparsable creation time decodes as zero.
func DecodeNotice(s *structpb.Struct) *domain.Notice {
	if s == nil {
		return nil
	}

	createdAt, _ := time.Parse(time.RFC3339Nano, stringField(s, FieldCreatedAt))

	return &domain.Notice{
		Title:     stringField(s, FieldTitle),
		Message:   stringField(s, FieldMessage),
		Severity:  domain.Severity(stringField(s, FieldSeverity)),
		Actor:     DecodeActor(structField(s, FieldActor)),
		Alert:     DecodeAlert(structField(s, FieldAlert)),
		CreatedAt: createdAt,
	}
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func intField(s *structpb.Struct, name string) int {
	return int(s.GetFields()[name].GetNumberValue())
}

// numberField reports the value of a field that is present and holds a number.
func numberField(s *structpb.Struct, name string) (float64, bool) {
	value, ok := s.GetFields()[name]
	if !ok {
		return 0, false
	}

	number, ok := value.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}

	return number.NumberValue, true
}

func structField(s *structpb.Struct, name string) *structpb.Struct {
	return s.GetFields()[name].GetStructValue()
}
