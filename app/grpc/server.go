package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-sbp-checkout/app/mapper"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/service"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	paymentService *service.PaymentService
	now            func() time.Time
}

func NewServer(paymentService *service.PaymentService) *Server {
	return &Server{paymentService: paymentService, now: time.Now}
}

func (s *Server) Health(_ context.Context, _ *HealthRequest) (*types.HealthResponse, error) {
	return &types.HealthResponse{Status: "ok", Timestamp: mapper.FormatTimestamp(s.now())}, nil
}

func (s *Server) CreatePayment(ctx context.Context, req *types.CreatePaymentRequest) (*types.CreatePaymentResponse, error) {
	l := loggerWithContext(ctx)
	if err := req.Validate(); err != nil {
		l.WithError(err).Debug("Create payment validation failed")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	item, err := s.paymentService.CreatePayment(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		l.WithError(err).Error("Create payment failed")
		return nil, status.Error(codes.Internal, "Failed to create payment")
	}

	return mapper.PaymentToCreateResponse(item), nil
}

func (s *Server) GetPayment(ctx context.Context, req *types.GetPaymentRequest) (*types.PaymentStatusResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	item, err := s.paymentService.GetPayment(ctx, req.GetId())
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return nil, status.Error(codes.NotFound, "Payment with specified ID not found")
		}
		loggerWithContext(ctx).WithError(err).Error("Get payment failed")
		return nil, status.Error(codes.Internal, "Failed to retrieve payment status")
	}

	return mapper.PaymentToStatusResponse(item), nil
}
