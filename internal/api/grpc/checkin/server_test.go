package checkin

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	pb "github.com/oshokin/safety-checkin/internal/pb/v1"
	"github.com/oshokin/safety-checkin/internal/timer"
)

// fakeService implements the Service interface for unit testing the transport.
type fakeService struct {
	// states holds one countdown per actor key.
	states map[string]*timer.Controller
	// alertErr is returned by TriggerAlert when set.
	alertErr error
	// lastLocation is the location passed to the last TriggerAlert call.
	lastLocation *domain.LocationSample
	// alerts counts TriggerAlert calls.
	alerts int
	// starts counts StartTimer calls.
	starts int
}

func newFakeService() *fakeService {
	return &fakeService{states: make(map[string]*timer.Controller)}
}

func (f *fakeService) controller(actor *domain.Actor) *timer.Controller {
	c, ok := f.states[actor.Key()]
	if !ok {
		c = timer.NewController(60)
		f.states[actor.Key()] = c
	}

	return c
}

// StartTimer starts the in-memory controller without a ticker.
func (f *fakeService) StartTimer(_ context.Context, actor *domain.Actor, minutes int) (domain.TimerState, error) {
	f.starts++
	c := f.controller(actor)
	_, err := c.Start(minutes)

	return c.State(), err
}

// PauseTimer pauses the in-memory controller.
func (f *fakeService) PauseTimer(_ context.Context, actor *domain.Actor) domain.TimerState {
	c := f.controller(actor)
	c.Pause()

	return c.State()
}

// ResetTimer resets the in-memory controller.
func (f *fakeService) ResetTimer(_ context.Context, actor *domain.Actor) domain.TimerState {
	c := f.controller(actor)
	c.Reset()

	return c.State()
}

// GetTimerState returns the in-memory controller state.
func (f *fakeService) GetTimerState(_ context.Context, actor *domain.Actor) domain.TimerState {
	return f.controller(actor).State()
}

// TriggerAlert returns a canned payload or the configured error.
func (f *fakeService) TriggerAlert(
	_ context.Context,
	actor *domain.Actor,
	location *domain.LocationSample,
) (*domain.EmergencyAlertPayload, error) {
	f.alerts++
	f.lastLocation = location
	if f.alertErr != nil {
		return nil, f.alertErr
	}

	return &domain.EmergencyAlertPayload{
		ID:        "alert-1",
		Kind:      domain.AlertKind,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Location:  *location,
		Actor:     actor,
	}, nil
}

var testActor = &domain.Actor{Hostname: "test-hostname", Username: "test-user"}

// TestServer_Validation ensures invalid requests return InvalidArgument errors.
func TestServer_Validation(t *testing.T) {
	t.Parallel()

	s := NewServer(newFakeService())
	ctx := context.Background()

	_, err := s.StartTimer(ctx, nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.PauseTimer(ctx, pb.NewActorRequest(nil))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.ErrorIs(t, FromStatus(err), domain.ErrActorRequired)

	_, err = s.GetTimerState(ctx, pb.NewActorRequest(&domain.Actor{Username: "only-user"}))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = s.StartTimer(ctx, pb.NewStartTimerRequest(testActor, 0))
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.ErrorIs(t, FromStatus(err), domain.ErrInvalidDuration)
}

// TestServer_Roundtrip exercises start, pause, resume and reset on the server implementation.
func TestServer_Roundtrip(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		s := NewServer(newFakeService())
		ctx := context.Background()

		response, err := s.StartTimer(ctx, pb.NewStartTimerRequest(testActor, 30))
		require.NoError(t, err)

		state := pb.DecodeTimerState(response)
		require.Equal(t, domain.TimerStatusRunning, state.Status)
		require.Equal(t, 1800, state.RemainingSeconds)

		response, err = s.PauseTimer(ctx, pb.NewActorRequest(testActor))
		require.NoError(t, err)
		require.Equal(t, domain.TimerStatusPaused, pb.DecodeTimerState(response).Status)

		response, err = s.StartTimer(ctx, pb.NewStartTimerRequest(testActor, 0))
		require.NoError(t, err)
		require.Equal(t, 1800, pb.DecodeTimerState(response).RemainingSeconds)

		response, err = s.ResetTimer(ctx, pb.NewActorRequest(testActor))
		require.NoError(t, err)
		require.Equal(t, domain.IdleState(), pb.DecodeTimerState(response))

		response, err = s.GetTimerState(ctx, pb.NewActorRequest(testActor))
		require.NoError(t, err)
		require.False(t, pb.DecodeTimerState(response).IsActive)
	})
}

// TestServer_TriggerAlert covers success and the location guard mapping.
func TestServer_TriggerAlert(t *testing.T) {
	t.Parallel()

	service := newFakeService()
	s := NewServer(service)
	location := &domain.LocationSample{Latitude: 41.8781, Longitude: -87.6298}

	response, err := s.TriggerAlert(context.Background(), pb.NewTriggerAlertRequest(testActor, location))
	require.NoError(t, err)
	require.Equal(t, location, service.lastLocation)

	payload := pb.DecodeAlert(response)
	require.Equal(t, domain.AlertKind, payload.Kind)
	require.Equal(t, *location, payload.Location)
	require.Equal(t, testActor, payload.Actor)

	service.alertErr = fmt.Errorf("resolve location: %w", domain.ErrLocationUnavailable)

	_, err = s.TriggerAlert(context.Background(), pb.NewTriggerAlertRequest(testActor, nil))
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
	require.ErrorIs(t, FromStatus(err), domain.ErrLocationUnavailable)
	require.Nil(t, service.lastLocation)
}

// TestServer_TriggerAlert_MalformedLocation never alerts on a location that
// lacks real coordinates.
func TestServer_TriggerAlert_MalformedLocation(t *testing.T) {
	t.Parallel()

	service := newFakeService()
	s := NewServer(service)

	for name, location := range map[string]map[string]any{
		"empty":           {},
		"latitude only":   {pb.FieldLatitude: 45},
		"longitude only":  {pb.FieldLongitude: -120},
		"string latitude": {pb.FieldLatitude: "abc", pb.FieldLongitude: 10},
		"bool longitude":  {pb.FieldLatitude: 10, pb.FieldLongitude: true},
	} {
		request := pb.NewActorRequest(testActor)

		encoded, err := structpb.NewStruct(location)
		require.NoError(t, err)

		request.Fields[pb.FieldLocation] = structpb.NewStructValue(encoded)

		response, err := s.TriggerAlert(context.Background(), request)
		require.Nil(t, response, name)
		require.Equal(t, codes.FailedPrecondition, status.Code(err), name)
		require.ErrorIs(t, FromStatus(err), domain.ErrLocationUnavailable, name)
	}

	require.Zero(t, service.alerts)
}

// TestServer_StartTimer_MalformedDuration rejects fractional, negative and
// non-numeric durations before the service sees them.
func TestServer_StartTimer_MalformedDuration(t *testing.T) {
	t.Parallel()

	service := newFakeService()
	s := NewServer(service)

	for _, minutes := range []any{1.9, -5, "30"} {
		request := pb.NewActorRequest(testActor)

		value, err := structpb.NewValue(minutes)
		require.NoError(t, err)

		request.Fields[pb.FieldDurationMinutes] = value

		_, err = s.StartTimer(context.Background(), request)
		require.Equal(t, codes.InvalidArgument, status.Code(err), "minutes %v", minutes)
		require.ErrorIs(t, FromStatus(err), domain.ErrInvalidDuration, "minutes %v", minutes)
	}

	require.Zero(t, service.starts)
}

// TestFromStatus_InvalidArgument keeps unrelated argument errors unmapped.
func TestFromStatus_InvalidArgument(t *testing.T) {
	t.Parallel()

	_, err := NewServer(newFakeService()).StartTimer(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	mapped := FromStatus(err)
	require.NotErrorIs(t, mapped, domain.ErrInvalidDuration)
	require.NotErrorIs(t, mapped, domain.ErrActorRequired)
	require.Equal(t, err, mapped)
}

// TestToStatus covers the remaining error mappings.
func TestToStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, codes.Unavailable, status.Code(toStatus(timer.ErrClosed)))
	require.Equal(t, codes.Canceled, status.Code(toStatus(context.Canceled)))
	require.Equal(t, codes.DeadlineExceeded, status.Code(toStatus(context.DeadlineExceeded)))
	require.Equal(t, codes.Internal, status.Code(toStatus(errors.New("disk full"))))
	require.NoError(t, FromStatus(nil))

	plain := errors.New("plain")
	require.Equal(t, plain, FromStatus(plain))
}

// TestRateLimiter_Interceptor throttles per actor and never throttles alerts.
func TestRateLimiter_Interceptor(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(1, 2)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	interceptor := limiter.UnaryInterceptor()
	handler := func(context.Context, any) (any, error) { return new(structpb.Struct), nil }
	call := func(method string, actor *domain.Actor) error {
		_, err := interceptor(
			context.Background(),
			pb.NewActorRequest(actor),
			&grpc.UnaryServerInfo{FullMethod: method},
			handler,
		)

		return err
	}

	other := &domain.Actor{Hostname: "h2", Username: "u2"}

	require.NoError(t, call(pb.CheckInServiceGetTimerStateFullMethodName, testActor))
	require.NoError(t, call(pb.CheckInServiceGetTimerStateFullMethodName, testActor))
	require.Equal(t, codes.ResourceExhausted,
		status.Code(call(pb.CheckInServiceGetTimerStateFullMethodName, testActor)))

	// Other actors have their own bucket.
	require.NoError(t, call(pb.CheckInServicePauseTimerFullMethodName, other))

	// Alerts bypass the limiter.
	for range 5 {
		require.NoError(t, call(pb.CheckInServiceTriggerAlertFullMethodName, testActor))
	}

	// Tokens refill over time.
	now = now.Add(time.Second)
	require.NoError(t, call(pb.CheckInServiceStartTimerFullMethodName, testActor))

	// Idle buckets are swept.
	now = now.Add(visitorTTL + time.Second)
	require.True(t, limiter.Allow(testActor.Key()))

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	require.Len(t, limiter.visitors, 1)
}
