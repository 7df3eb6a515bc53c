package grpc

import (
	"context"

	"github.com/vibast-solutions/ms-go-sbp-checkout/app/mapper"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types/checkoutpb"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

const serviceName = checkoutpb.ServiceName

type HealthRequest struct{}

type PaymentsServiceServer interface {
	CreatePayment(ctx context.Context, req *types.CreatePaymentRequest) (*types.CreatePaymentResponse, error)
	GetPayment(ctx context.Context, req *types.GetPaymentRequest) (*types.PaymentStatusResponse, error)
	Health(ctx context.Context, req *HealthRequest) (*types.HealthResponse, error)
}

// PaymentsServiceDesc serves checkout.PaymentsService from
// proto/checkout/v1/checkout.proto over the standard proto codec.
var PaymentsServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PaymentsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreatePayment", Handler: createPaymentHandler},
		{MethodName: "GetPayment", Handler: getPaymentHandler},
		{MethodName: "Health", Handler: healthHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: checkoutpb.FileName,
}

func RegisterPaymentsServiceServer(s grpc.ServiceRegistrar, srv PaymentsServiceServer) {
	s.RegisterService(&PaymentsServiceDesc, srv)
}

func createPaymentHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := checkoutpb.NewCreatePaymentRequest()
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		parsed, err := mapper.CreatePaymentRequestFromProto(req.(proto.Message))
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		resp, err := srv.(PaymentsServiceServer).CreatePayment(ctx, parsed)
		if err != nil {
			return nil, err
		}
		return mapper.CreatePaymentResponseToProto(resp), nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: checkoutpb.CreatePaymentFullMethod}, handler)
}

func getPaymentHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := checkoutpb.NewGetPaymentRequest()
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		resp, err := srv.(PaymentsServiceServer).GetPayment(ctx, mapper.GetPaymentRequestFromProto(req.(proto.Message)))
		if err != nil {
			return nil, err
		}
		return mapper.PaymentStatusResponseToProto(resp), nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: checkoutpb.GetPaymentFullMethod}, handler)
}

func healthHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := checkoutpb.NewHealthRequest()
	if err := dec(in); err != nil {
		return nil, err
	}
	handler := func(ctx context.Context, _ interface{}) (interface{}, error) {
		resp, err := srv.(PaymentsServiceServer).Health(ctx, &HealthRequest{})
		if err != nil {
			return nil, err
		}
		return mapper.HealthResponseToProto(resp), nil
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: checkoutpb.HealthFullMethod}, handler)
}

// PaymentsServiceClient calls checkout.PaymentsService and maps the proto
// messages back to the API types.
type PaymentsServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPaymentsServiceClient(cc grpc.ClientConnInterface) *PaymentsServiceClient {
	return &PaymentsServiceClient{cc: cc}
}

func (c *PaymentsServiceClient) CreatePayment(ctx context.Context, in *types.CreatePaymentRequest, opts ...grpc.CallOption) (*types.CreatePaymentResponse, error) {
	out := checkoutpb.NewCreatePaymentResponse()
	if err := c.cc.Invoke(ctx, checkoutpb.CreatePaymentFullMethod, mapper.CreatePaymentRequestToProto(in), out, opts...); err != nil {
		return nil, err
	}
	return mapper.CreatePaymentResponseFromProto(out), nil
}

func (c *PaymentsServiceClient) GetPayment(ctx context.Context, in *types.GetPaymentRequest, opts ...grpc.CallOption) (*types.PaymentStatusResponse, error) {
	out := checkoutpb.NewPaymentStatusResponse()
	if err := c.cc.Invoke(ctx, checkoutpb.GetPaymentFullMethod, mapper.GetPaymentRequestToProto(in), out, opts...); err != nil {
		return nil, err
	}
	return mapper.PaymentStatusResponseFromProto(out), nil
}

func (c *PaymentsServiceClient) Health(ctx context.Context, _ *HealthRequest, opts ...grpc.CallOption) (*types.HealthResponse, error) {
	out := checkoutpb.NewHealthResponse()
	if err := c.cc.Invoke(ctx, checkoutpb.HealthFullMethod, checkoutpb.NewHealthRequest(), out, opts...); err != nil {
		return nil, err
	}
	return mapper.HealthResponseFromProto(out), nil
}
