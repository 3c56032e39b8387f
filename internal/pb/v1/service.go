package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "checkin.v1.CheckInService"

// Full method names.
const (
	CheckInServiceStartTimerFullMethodName    = "/" + ServiceName + "/StartTimer"
	CheckInServicePauseTimerFullMethodName    = "/" + ServiceName + "/PauseTimer"
	CheckInServiceResetTimerFullMethodName    = "/" + ServiceName + "/ResetTimer"
	CheckInServiceGetTimerStateFullMethodName = "/" + ServiceName + "/GetTimerState"
	CheckInServiceTriggerAlertFullMethodName  = "/" + ServiceName + "/TriggerAlert"
)

// CheckInServiceServer is the server API for CheckInService.
type CheckInServiceServer interface {
	StartTimer(ctx context.Context, request *structpb.Struct) (*structpb.Struct, error)
	PauseTimer(ctx context.Context, request *structpb.Struct) (*structpb.Struct, error)
	ResetTimer(ctx context.Context, request *structpb.Struct) (*structpb.Struct, error)
	GetTimerState(ctx context.Context, request *structpb.Struct) (*structpb.Struct, error)
	TriggerAlert(ctx context.Context, request *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedCheckInServiceServer answers every method with Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedCheckInServiceServer struct{}

func (UnimplementedCheckInServiceServer) StartTimer(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method StartTimer not implemented")
}

func (UnimplementedCheckInServiceServer) PauseTimer(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PauseTimer not implemented")
}

func (UnimplementedCheckInServiceServer) ResetTimer(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ResetTimer not implemented")
}

func (UnimplementedCheckInServiceServer) GetTimerState(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTimerState not implemented")
}

func (UnimplementedCheckInServiceServer) TriggerAlert(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method TriggerAlert not implemented")
}

// RegisterCheckInServiceServer registers srv on s.
func RegisterCheckInServiceServer(s grpc.ServiceRegistrar, srv CheckInServiceServer) {
	s.RegisterService(&CheckInServiceDesc, srv)
}

// unaryMethod is the signature shared by every CheckInService method.
type unaryMethod func(srv CheckInServiceServer, ctx context.Context, request *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a typed method to the grpc.MethodDesc handler shape.
func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		request := new(structpb.Struct)
		if err := dec(request); err != nil {
			return nil, err
		}

		server, _ := srv.(CheckInServiceServer)

		if interceptor == nil {
			return call(server, ctx, request)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*structpb.Struct)
			return call(server, ctx, typed)
		}

		return interceptor(ctx, request, info, handler)
	}
}

// CheckInServiceDesc is the grpc.ServiceDesc for CheckInService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by grpc convention.
var CheckInServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CheckInServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "StartTimer",
			Handler:    unaryHandler(CheckInServiceStartTimerFullMethodName, CheckInServiceServer.StartTimer),
		},
		{
			MethodName: "PauseTimer",
			Handler:    unaryHandler(CheckInServicePauseTimerFullMethodName, CheckInServiceServer.PauseTimer),
		},
		{
			MethodName: "ResetTimer",
			Handler:    unaryHandler(CheckInServiceResetTimerFullMethodName, CheckInServiceServer.ResetTimer),
		},
		{
			MethodName: "GetTimerState",
			Handler:    unaryHandler(CheckInServiceGetTimerStateFullMethodName, CheckInServiceServer.GetTimerState),
		},
		{
			MethodName: "TriggerAlert",
			Handler:    unaryHandler(CheckInServiceTriggerAlertFullMethodName, CheckInServiceServer.TriggerAlert),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "checkin/v1/checkin.proto",
}

// CheckInServiceClient is the client API for CheckInService.
type CheckInServiceClient interface {
	StartTimer(ctx context.Context, request *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	PauseTimer(ctx context.Context, request *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ResetTimer(ctx context.Context, request *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetTimerState(ctx context.Context, request *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	TriggerAlert(ctx context.Context, request *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type checkInServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCheckInServiceClient creates a client over cc.
//
//nolint:ireturn // Mirrors generated client constructors.
func NewCheckInServiceClient(cc grpc.ClientConnInterface) CheckInServiceClient {
	return &checkInServiceClient{cc: cc}
}

func (c *checkInServiceClient) invoke(
	ctx context.Context,
	method string,
	request *structpb.Struct,
	opts []grpc.CallOption,
) (*structpb.Struct, error) {
	response := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, request, response, opts...); err != nil {
		return nil, err
	}

	return response, nil
}

func (c *checkInServiceClient) StartTimer(
	ctx context.Context,
	request *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, CheckInServiceStartTimerFullMethodName, request, opts)
}

func (c *checkInServiceClient) PauseTimer(
	ctx context.Context,
	request *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, CheckInServicePauseTimerFullMethodName, request, opts)
}

func (c *checkInServiceClient) ResetTimer(
	ctx context.Context,
	request *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, CheckInServiceResetTimerFullMethodName, request, opts)
}

func (c *checkInServiceClient) GetTimerState(
	ctx context.Context,
	request *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, CheckInServiceGetTimerStateFullMethodName, request, opts)
}

func (c *checkInServiceClient) TriggerAlert(
	ctx context.Context,
	request *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, CheckInServiceTriggerAlertFullMethodName, request, opts)
}
