package pb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
)

// TestNoticeCodec checks that a critical notice with an alert survives the Struct codec.
func TestNoticeCodec(t *testing.T) {
	t.Parallel()

	actor := &domain.Actor{Hostname: "library-kiosk", Username: "a.student"}
	notice := &domain.Notice{
		Title:    "Emergency alert",
		Message:  "Help requested",
		Severity: domain.SeverityCritical,
		Actor:    actor,
		Alert: &domain.EmergencyAlertPayload{
			ID:        "4f1c2b8e-3f0a-4c55-9f4e-2f7c1d2a9b10",
			Kind:      domain.AlertKind,
			Timestamp: "2026-10-17T09:30:00Z",
			Location:  domain.LocationSample{Latitude: 42.3601, Longitude: -71.0589},
			Actor:     actor,
		},
		CreatedAt: time.Date(2026, 10, 17, 9, 30, 0, 500, time.UTC),
	}

	require.Equal(t, notice, DecodeNotice(EncodeNotice(notice)))
	require.Nil(t, EncodeNotice(nil))
	require.Nil(t, DecodeNotice(nil))
}

// TestRequests verifies request builders and extractors agree.
func TestRequests(t *testing.T) {
	t.Parallel()

	actor := &domain.Actor{Hostname: "h", Username: "u"}

	start := NewStartTimerRequest(actor, 30)
	require.Equal(t, actor, RequestActor(start))

	minutes, err := RequestDurationMinutes(start)
	require.NoError(t, err)
	require.Equal(t, 30, minutes)

	alert := NewTriggerAlertRequest(actor, nil)
	location, err := RequestLocation(alert)
	require.NoError(t, err)
	require.Nil(t, location)

	alert = NewTriggerAlertRequest(nil, &domain.LocationSample{Latitude: 1.5, Longitude: -2.5})
	require.Nil(t, RequestActor(alert))

	location, err = RequestLocation(alert)
	require.NoError(t, err)
	require.Equal(t, &domain.LocationSample{Latitude: 1.5, Longitude: -2.5}, location)
}

// TestRequestDurationMinutes accepts only whole, non-negative minutes.
func TestRequestDurationMinutes(t *testing.T) {
	t.Parallel()

	minutes, err := RequestDurationMinutes(&structpb.Struct{})
	require.NoError(t, err)
	require.Zero(t, minutes)

	for _, value := range []any{1.9, -1, "15", true, 1e12} {
		request, err := structpb.NewStruct(map[string]any{FieldDurationMinutes: value})
		require.NoError(t, err)

		_, err = RequestDurationMinutes(request)
		require.ErrorIs(t, err, domain.ErrInvalidDuration, "value %v", value)
	}
}

// TestRequestLocation_Malformed rejects empty, partial and non-numeric locations.
func TestRequestLocation_Malformed(t *testing.T) {
	t.Parallel()

	for name, location := range map[string]map[string]any{
		"empty":            {},
		"latitude only":    {FieldLatitude: 45},
		"longitude only":   {FieldLongitude: 45},
		"string latitude":  {FieldLatitude: "abc", FieldLongitude: 10},
		"null longitude":   {FieldLatitude: 10, FieldLongitude: nil},
		"nested longitude": {FieldLatitude: 10, FieldLongitude: map[string]any{"value": 1}},
	} {
		request, err := structpb.NewStruct(map[string]any{FieldLocation: location})
		require.NoError(t, err)

		sample, err := RequestLocation(request)
		require.ErrorIs(t, err, domain.ErrLocationUnavailable, name)
		require.Nil(t, sample, name)
	}
}

// TestDecodeTimerState_Lenient decodes empty and unknown payloads as idle.
func TestDecodeTimerState_Lenient(t *testing.T) {
	t.Parallel()

	require.Equal(t, domain.IdleState(), DecodeTimerState(nil))

	s, err := structpb.NewStruct(map[string]any{
		FieldStatus:           "stopped",
		FieldRemainingSeconds: 12,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TimerState{Status: domain.TimerStatusIdle, RemainingSeconds: 12}, DecodeTimerState(s))

	state := domain.TimerState{Status: domain.TimerStatusPaused, DurationSeconds: 1800, RemainingSeconds: 20}
	require.Equal(t, state, DecodeTimerState(EncodeTimerState(state)))
}
