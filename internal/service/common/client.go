//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	api "github.com/oshokin/safety-checkin/internal/api/grpc/checkin"
	"github.com/oshokin/safety-checkin/internal/config"
	domain "github.com/oshokin/safety-checkin/internal/domain/checkin"
	pb "github.com/oshokin/safety-checkin/internal/pb/v1"
)

// Client wraps the gRPC CheckInService client and speaks domain types.
type Client struct {
	// conn is the underlying gRPC connection to the check-in server.
	conn *grpc.ClientConn
	// api is the CheckInService client interface.
	api pb.CheckInServiceClient

	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the check-in server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial check-in server: %w", err)
	}

	return newClient(conn, pb.NewCheckInServiceClient(conn), opts...), nil
}

func newClient(conn *grpc.ClientConn, service pb.CheckInServiceClient, opts ...Option) *Client {
	client := &Client{
		conn:        conn,
		api:         service,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// StartTimer starts a countdown of minutes. Zero minutes resumes a paused one.
func (c *Client) StartTimer(ctx context.Context, actor *domain.Actor, minutes int) (domain.TimerState, error) {
	if actor == nil {
		return domain.IdleState(), domain.ErrActorRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.StartTimer(callCtx, pb.NewStartTimerRequest(actor, minutes))
	if err != nil {
		return domain.IdleState(), fmt.Errorf("start timer: %w", api.FromStatus(err))
	}

	return pb.DecodeTimerState(response), nil
}

// ResumeTimer continues a paused countdown.
func (c *Client) ResumeTimer(ctx context.Context, actor *domain.Actor) (domain.TimerState, error) {
	return c.StartTimer(ctx, actor, 0)
}

// PauseTimer pauses the countdown.
func (c *Client) PauseTimer(ctx context.Context, actor *domain.Actor) (domain.TimerState, error) {
	return c.actorCall(ctx, "pause timer", actor, c.api.PauseTimer)
}

// ResetTimer resets the countdown to idle.
func (c *Client) ResetTimer(ctx context.Context, actor *domain.Actor) (domain.TimerState, error) {
	return c.actorCall(ctx, "reset timer", actor, c.api.ResetTimer)
}

// GetTimerState retrieves the current countdown.
func (c *Client) GetTimerState(ctx context.Context, actor *domain.Actor) (domain.TimerState, error) {
	return c.actorCall(ctx, "get timer state", actor, c.api.GetTimerState)
}

// TriggerAlert raises an emergency alert. A nil location lets the server
// resolve the position.
func (c *Client) TriggerAlert(
	ctx context.Context,
	actor *domain.Actor,
	location *domain.LocationSample,
) (*domain.EmergencyAlertPayload, error) {
	if actor == nil {
		return nil, domain.ErrActorRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := c.api.TriggerAlert(callCtx, pb.NewTriggerAlertRequest(actor, location))
	if err != nil {
		return nil, fmt.Errorf("trigger alert: %w", api.FromStatus(err))
	}

	return pb.DecodeAlert(response), nil
}

// actorRPC is a CheckInService method taking only the actor.
type actorRPC func(ctx context.Context, request *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)

func (c *Client) actorCall(
	ctx context.Context,
	operation string,
	actor *domain.Actor,
	call actorRPC,
) (domain.TimerState, error) {
	if actor == nil {
		return domain.IdleState(), domain.ErrActorRequired
	}

	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	response, err := call(callCtx, pb.NewActorRequest(actor))
	if err != nil {
		return domain.IdleState(), fmt.Errorf("%s: %w", operation, api.FromStatus(err))
	}

	return pb.DecodeTimerState(response), nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
