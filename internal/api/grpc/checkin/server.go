package checkin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	pb "github.com/oshokin/safety-checkin/internal/pb/v1"
	"github.com/oshokin/safety-checkin/internal/timer"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	StartTimer(ctx context.Context, actor *domain.Actor, minutes int) (domain.TimerState, error)
	PauseTimer(ctx context.Context, actor *domain.Actor) domain.TimerState
	ResetTimer(ctx context.Context, actor *domain.Actor) domain.TimerState
	GetTimerState(ctx context.Context, actor *domain.Actor) domain.TimerState
	TriggerAlert(
		ctx context.Context,
		actor *domain.Actor,
		location *domain.LocationSample,
	) (*domain.EmergencyAlertPayload, error)
}

// Server implements the CheckInService gRPC API.
type Server struct {
	pb.UnimplementedCheckInServiceServer

	// service provides the business logic for countdown and alert operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// StartTimer starts or resumes the caller's countdown.
func (s *Server) StartTimer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor, err := requireActor(req)
	if err != nil {
		return nil, err
	}

	minutes, err := pb.RequestDurationMinutes(req)
	if err != nil {
		return nil, toStatus(err)
	}

	state, err := s.service.StartTimer(ctx, actor, minutes)
	if err != nil {
		return nil, toStatus(err)
	}

	return pb.EncodeTimerState(state), nil
}

// PauseTimer pauses the caller's countdown.
func (s *Server) PauseTimer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor, err := requireActor(req)
	if err != nil {
		return nil, err
	}

	return pb.EncodeTimerState(s.service.PauseTimer(ctx, actor)), nil
}

// ResetTimer resets the caller's countdown.
func (s *Server) ResetTimer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor, err := requireActor(req)
	if err != nil {
		return nil, err
	}

	return pb.EncodeTimerState(s.service.ResetTimer(ctx, actor)), nil
}

// GetTimerState returns the caller's countdown.
func (s *Server) GetTimerState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor, err := requireActor(req)
	if err != nil {
		return nil, err
	}

	return pb.EncodeTimerState(s.service.GetTimerState(ctx, actor)), nil
}

// TriggerAlert dispatches an emergency alert for the caller.
func (s *Server) TriggerAlert(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	actor, err := requireActor(req)
	if err != nil {
		return nil, err
	}

	location, err := pb.RequestLocation(req)
	if err != nil {
		return nil, toStatus(err)
	}

	payload, err := s.service.TriggerAlert(ctx, actor, location)
	if err != nil {
		return nil, toStatus(err)
	}

	return pb.EncodeAlert(payload), nil
}

// requireActor extracts a complete actor or fails with InvalidArgument.
func requireActor(req *structpb.Struct) (*domain.Actor, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor := pb.RequestActor(req)
	if actor == nil || actor.Username == "" || actor.Hostname == "" {
		return nil, status.Error(codes.InvalidArgument, domain.ErrActorRequired.Error())
	}

	return actor, nil
}

// toStatus maps domain errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidDuration):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrLocationUnavailable):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrActorRequired):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, timer.ErrClosed):
		return status.Error(codes.Unavailable, "server is shutting down")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "unable to process request")
	}
}

// FromStatus maps a gRPC error back to the matching domain error so callers
// can use errors.Is. Unknown codes are returned unchanged.
func FromStatus(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.FailedPrecondition:
		return fmt.Errorf("%w (%s)", domain.ErrLocationUnavailable, st.Message())
	case codes.InvalidArgument:
		switch {
		case st.Message() == domain.ErrActorRequired.Error():
			return domain.ErrActorRequired
		case strings.Contains(st.Message(), domain.ErrInvalidDuration.Error()):
			return fmt.Errorf("%w (%s)", domain.ErrInvalidDuration, st.Message())
		default:
			return err
		}
	default:
		return err
	}
}
