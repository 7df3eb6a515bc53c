package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/provider"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/repository"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/service"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types/checkoutpb"
	"github.com/vibast-solutions/ms-go-sbp-checkout/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type grpcGateway struct {
	calls int
}

func (g *grpcGateway) CreatePayment(_ context.Context, input *provider.CreateInput) (*provider.RemotePayment, error) {
	g.calls++
	return &provider.RemotePayment{
		ID:           "ext-grpc",
		Status:       "pending",
		Amount:       provider.Amount{Value: input.Amount.StringFixed(2), Currency: input.Currency},
		Confirmation: &provider.Confirmation{Type: "redirect", ConfirmationURL: "https://yoomoney.ru/checkout?orderId=ext-grpc"},
		CreatedAt:    "2026-10-15T10:00:00.000Z",
		Test:         true,
	}, nil
}

func (g *grpcGateway) GetPayment(_ context.Context, _ string) (*provider.RemotePayment, error) {
	return nil, &provider.GatewayError{Operation: "get payment", StatusCode: 404}
}

func startTestServer(t *testing.T, gateway provider.Gateway) *grpc.ClientConn {
	t.Helper()

	svc := service.NewPaymentService(repository.NewMemoryPaymentStore(), gateway, config.PaymentsConfig{
		Currency:       "RUB",
		GatewayTimeout: time.Second,
	}, "http://localhost:5173")

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		RecoveryInterceptor(),
		RequestIDInterceptor(),
		LoggingInterceptor(),
	))
	RegisterPaymentsServiceServer(srv, NewServer(svc))
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestGRPCCreateAndGetPayment(t *testing.T) {
	client := NewPaymentsServiceClient(startTestServer(t, &grpcGateway{}))
	ctx := metadata.AppendToOutgoingContext(context.Background(), requestIDHeader, "grpc-req-1")

	var header metadata.MD
	created, err := client.CreatePayment(ctx, &types.CreatePaymentRequest{Amount: decimal.NewFromInt(150), Description: "x"}, grpc.Header(&header))
	if err != nil {
		t.Fatalf("create payment failed: %v", err)
	}
	if created.Amount.Value != "150.00" || created.Confirmation.Type != "qr" || created.Status != "pending" {
		t.Fatalf("unexpected create response: %+v", created)
	}
	if got := header.Get(requestIDHeader); len(got) != 1 || got[0] != "grpc-req-1" {
		t.Fatalf("expected request id echoed in header, got %v", got)
	}

	found, err := client.GetPayment(ctx, &types.GetPaymentRequest{Id: created.ID})
	if err != nil {
		t.Fatalf("get payment failed: %v", err)
	}
	if found.ID != created.ID || found.Status != "pending" || found.PaidAt != "" {
		t.Fatalf("unexpected status response: %+v", found)
	}
}

func TestGRPCCreatePaymentInvalidAmount(t *testing.T) {
	gateway := &grpcGateway{}
	client := NewPaymentsServiceClient(startTestServer(t, gateway))

	_, err := client.CreatePayment(context.Background(), &types.CreatePaymentRequest{Amount: decimal.NewFromInt(0)})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if gateway.calls != 0 {
		t.Fatalf("gateway must not be called, got %d", gateway.calls)
	}
}

func TestGRPCGetPaymentNotFound(t *testing.T) {
	client := NewPaymentsServiceClient(startTestServer(t, &grpcGateway{}))

	_, err := client.GetPayment(context.Background(), &types.GetPaymentRequest{Id: "missing"})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	_, err = client.GetPayment(context.Background(), &types.GetPaymentRequest{})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestGRPCHealth(t *testing.T) {
	conn := startTestServer(t, &grpcGateway{})

	resp, err := NewPaymentsServiceClient(conn).Health(context.Background(), &HealthRequest{})
	if err != nil {
		t.Fatalf("health failed: %v", err)
	}
	if resp.Status != "ok" || resp.Timestamp == "" {
		t.Fatalf("unexpected health response: %+v", resp)
	}

	check, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: serviceName})
	if err != nil {
		t.Fatalf("grpc health check failed: %v", err)
	}
	if check.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", check.GetStatus())
	}
}

func TestGRPCCreatePaymentWithPlainProtoClient(t *testing.T) {
	gateway := &grpcGateway{}
	conn := startTestServer(t, gateway)

	req := checkoutpb.NewCreatePaymentRequest()
	checkoutpb.SetString(req, "amount", "150.5")
	checkoutpb.SetString(req, "description", "coffee")
	out := checkoutpb.NewCreatePaymentResponse()

	if err := conn.Invoke(context.Background(), checkoutpb.CreatePaymentFullMethod, req, out); err != nil {
		t.Fatalf("invoke failed: %v", err)
	}
	if got := checkoutpb.GetString(checkoutpb.GetMessage(out, "amount"), "value"); got != "150.50" {
		t.Fatalf("expected amount 150.50, got %q", got)
	}
	if got := checkoutpb.GetString(out, "description"); got != "coffee" {
		t.Fatalf("expected description coffee, got %q", got)
	}
	if gateway.calls != 1 {
		t.Fatalf("expected one gateway call, got %d", gateway.calls)
	}
}

func TestGRPCCreatePaymentRejectsMalformedAmount(t *testing.T) {
	gateway := &grpcGateway{}
	conn := startTestServer(t, gateway)

	req := checkoutpb.NewCreatePaymentRequest()
	checkoutpb.SetString(req, "amount", "one hundred")

	err := conn.Invoke(context.Background(), checkoutpb.CreatePaymentFullMethod, req, checkoutpb.NewCreatePaymentResponse())
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if gateway.calls != 0 {
		t.Fatalf("gateway must not be called, got %d", gateway.calls)
	}
}
