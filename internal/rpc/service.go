package rpc

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc
// ServiceName is the fully qualified gRPC service name.
const ServiceName = "promenade.Simulator"

const simulateMethod = "/" + ServiceName + "/Simulate"

// SimulatorServer is the server side of the Simulator service. Requests and
// replies are google.protobuf.Struct messages:
//
//	request: {size: number, program: string, rounds: number}
//	reply:   {lineup: string, rounds: number, executed: number,
//	          cycle_start: number, cycle_length: number}
type SimulatorServer interface {
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Register attaches srv to a grpc.Server.
func Register(s grpc.ServiceRegistrar, srv SimulatorServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SimulatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: simulateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "promenade.proto",
}

func simulateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SimulatorServer).Simulate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: simulateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SimulatorServer).Simulate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
// #endregion service-desc

// #region fields
// maxExactInt is the largest integer a protobuf double carries exactly.
const maxExactInt = 1 << 53

func intField(s *structpb.Struct, key string, fallback int) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return fallback, nil
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return 0, fmt.Errorf("field %q: expected number", key)
	}
	f := v.GetNumberValue()
	if f < 0 || f > maxExactInt || f != math.Trunc(f) {
		return 0, fmt.Errorf("field %q: expected non-negative integer, got %v", key, f)
	}
	return int(f), nil
}

func stringField(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", fmt.Errorf("field %q is required", key)
	}
	if _, isStr := v.GetKind().(*structpb.Value_StringValue); !isStr {
		return "", fmt.Errorf("field %q: expected string", key)
	}
	return v.GetStringValue(), nil
}
// #endregion fields
