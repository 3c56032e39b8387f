//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	pb "github.com/oshokin/safety-checkin/internal/pb/v1"
)

// stubService answers every RPC with a canned response or error.
type stubService struct {
	response *structpb.Struct
	err      error
	requests []*structpb.Struct
}

func (s *stubService) answer(request *structpb.Struct) (*structpb.Struct, error) {
	s.requests = append(s.requests, request)

	return s.response, s.err
}

func (s *stubService) StartTimer(_ context.Context, r *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	return s.answer(r)
}

func (s *stubService) PauseTimer(_ context.Context, r *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	return s.answer(r)
}

func (s *stubService) ResetTimer(_ context.Context, r *structpb.Struct, _ ...grpc.CallOption) (*structpb.Struct, error) {
	return s.answer(r)
}

func (s *stubService) GetTimerState(
	_ context.Context,
	r *structpb.Struct,
	_ ...grpc.CallOption,
) (*structpb.Struct, error) {
	return s.answer(r)
}

func (s *stubService) TriggerAlert(
	_ context.Context,
	r *structpb.Struct,
	_ ...grpc.CallOption,
) (*structpb.Struct, error) {
	return s.answer(r)
}

var testActor = &domain.Actor{Hostname: "field-laptop", Username: "o.shokin"}

// TestDial_ValidatesAddress verifies that Dial rejects empty addresses.
func TestDial_ValidatesAddress(t *testing.T) {
	t.Parallel()

	c, err := Dial(context.Background(), "")
	require.Error(t, err)
	require.Nil(t, c)
}

// TestClient_callContext checks timeout vs cancel-only behavior of callContext.
func TestClient_callContext(t *testing.T) {
	t.Parallel()

	c := &Client{
		callTimeout: 0,
	}

	ctx, cancel := c.callContext(context.Background())
	cancel()

	require.NotNil(t, ctx)

	c.callTimeout = 10 * time.Millisecond

	ctx, cancel = c.callContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, 30*time.Millisecond)
}

// TestClient_NilActor asserts that a nil actor is rejected before any RPC.
func TestClient_NilActor(t *testing.T) {
	t.Parallel()

	stub := new(stubService)
	c := newClient(nil, stub)

	_, err := c.StartTimer(context.Background(), nil, 5)
	require.ErrorIs(t, err, domain.ErrActorRequired)

	_, err = c.PauseTimer(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrActorRequired)

	_, err = c.TriggerAlert(context.Background(), nil, nil)
	require.ErrorIs(t, err, domain.ErrActorRequired)

	require.Empty(t, stub.requests)
}

// TestClient_DecodesResponses checks request building and response decoding.
func TestClient_DecodesResponses(t *testing.T) {
	t.Parallel()

	running := domain.TimerState{
		Status:           domain.TimerStatusRunning,
		IsActive:         true,
		DurationSeconds:  300,
		RemainingSeconds: 300,
	}

	stub := &stubService{response: pb.EncodeTimerState(running)}
	c := newClient(nil, stub, WithCallTimeout(time.Second))

	state, err := c.StartTimer(context.Background(), testActor, 5)
	require.NoError(t, err)
	require.Equal(t, running, state)
	minutes, err := pb.RequestDurationMinutes(stub.requests[0])
	require.NoError(t, err)
	require.Equal(t, 5, minutes)
	require.Equal(t, testActor, pb.RequestActor(stub.requests[0]))

	_, err = c.ResumeTimer(context.Background(), testActor)
	require.NoError(t, err)
	minutes, err = pb.RequestDurationMinutes(stub.requests[1])
	require.NoError(t, err)
	require.Zero(t, minutes)

	state, err = c.GetTimerState(context.Background(), testActor)
	require.NoError(t, err)
	require.Equal(t, running, state)
}

// TestClient_MapsStatusErrors turns gRPC codes back into domain errors.
func TestClient_MapsStatusErrors(t *testing.T) {
	t.Parallel()

	stub := &stubService{err: status.Error(codes.InvalidArgument, "start countdown: invalid timer duration: 0 minutes")}
	c := newClient(nil, stub)

	_, err := c.StartTimer(context.Background(), testActor, 0)
	require.ErrorIs(t, err, domain.ErrInvalidDuration)

	stub.err = status.Error(codes.FailedPrecondition, "location unavailable")

	payload, err := c.TriggerAlert(context.Background(), testActor, nil)
	require.ErrorIs(t, err, domain.ErrLocationUnavailable)
	require.Nil(t, payload)

	stub.err = status.Error(codes.InvalidArgument, "request is required")

	_, err = c.PauseTimer(context.Background(), testActor)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.NotErrorIs(t, err, domain.ErrInvalidDuration)

	stub.err = status.Error(codes.ResourceExhausted, "slow down")

	_, err = c.ResetTimer(context.Background(), testActor)
	require.Equal(t, codes.ResourceExhausted, status.Code(err))
}
