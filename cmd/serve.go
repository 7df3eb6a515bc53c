package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/controller"
	paymentgrpc "github.com/vibast-solutions/ms-go-sbp-checkout/app/grpc"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/provider"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/repository"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/service"
	"github.com/vibast-solutions/ms-go-sbp-checkout/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and gRPC servers",
	Long:  "Start both HTTP (Echo) and gRPC servers for the checkout payment backend.",
	Run:   runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) {
	cfg, paymentService, cleanup := mustCreatePaymentService()
	defer cleanup()

	paymentController := controller.NewPaymentController(paymentService, cfg.App)
	grpcPaymentServer := paymentgrpc.NewServer(paymentService)

	e := setupHTTPServer(cfg, paymentController)
	grpcSrv, healthSrv, lis := setupGRPCServer(cfg, grpcPaymentServer)

	go func() {
		httpAddr := net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port)
		logrus.WithField("addr", httpAddr).Info("Starting HTTP server")
		if err := e.Start(httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("HTTP server error")
		}
	}()

	go func() {
		logrus.WithField("addr", lis.Addr().String()).Info("Starting gRPC server")
		if err := grpcSrv.Serve(lis); err != nil {
			logrus.WithError(err).Fatal("gRPC server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("HTTP shutdown error")
	}
	grpcSrv.GracefulStop()

	logrus.Info("Server stopped")
}

func setupHTTPServer(cfg *config.Config, paymentController *controller.PaymentController) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogRemoteIP:  true,
		LogLatency:   true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"remote_ip":  v.RemoteIP,
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"latency_ns": v.Latency.Nanoseconds(),
				"user_agent": v.UserAgent,
				"request_id": v.RequestID,
			}
			entry := logrus.WithFields(fields)
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("http_request")
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))

	e.GET("/", paymentController.Root)
	e.GET("/health", paymentController.Health)

	api := e.Group("/api")
	api.POST("/payments", paymentController.CreatePayment)
	api.GET("/payments/:id", paymentController.GetPayment)
	api.POST("/webhooks/yookassa", paymentController.HandleYooKassaWebhook)

	return e
}

func setupGRPCServer(cfg *config.Config, paymentServer *paymentgrpc.Server) (*grpc.Server, *health.Server, net.Listener) {
	grpcAddr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to listen on gRPC port")
	}

	grpcSrv := newGRPCServer(paymentServer)
	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(paymentgrpc.PaymentsServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)

	return grpcSrv, healthSrv, lis
}

func newGRPCServer(paymentServer *paymentgrpc.Server) *grpc.Server {
	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			paymentgrpc.RecoveryInterceptor(),
			paymentgrpc.RequestIDInterceptor(),
			paymentgrpc.LoggingInterceptor(),
		),
	)
	paymentgrpc.RegisterPaymentsServiceServer(grpcSrv, paymentServer)
	reflection.Register(grpcSrv)
	return grpcSrv
}

func mustCreatePaymentService() (*config.Config, *service.PaymentService, func()) {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogging(cfg); err != nil {
		logrus.WithError(err).Fatal("Failed to configure logging")
	}

	paymentService, cleanup, err := newPaymentService(context.Background(), cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize payment service")
	}

	return cfg, paymentService, cleanup
}

func newPaymentService(ctx context.Context, cfg *config.Config) (*service.PaymentService, func(), error) {
	gateway, err := provider.NewYooKassaProvider(provider.YooKassaConfig{
		ShopID:      cfg.YooKassa.ShopID,
		SecretKey:   cfg.YooKassa.SecretKey,
		APIURL:      cfg.YooKassa.APIURL,
		HTTPTimeout: cfg.YooKassa.HTTPTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Store.Driver {
	case config.StoreDriverMySQL:
		db, err := repository.OpenMySQL(cfg.MySQL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		paymentRepo := repository.NewPaymentRepository(db)
		if err := paymentRepo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}

		cleanup := func() {
			if err := db.Close(); err != nil {
				logrus.WithError(err).Warn("Failed to close database")
			}
		}
		return service.NewPaymentService(paymentRepo, gateway, cfg.Payments, cfg.App.FrontendURL), cleanup, nil
	default:
		logrus.Warn("Using in-memory payment store; payments are lost on restart")
		store := repository.NewMemoryPaymentStore()
		return service.NewPaymentService(store, gateway, cfg.Payments, cfg.App.FrontendURL), func() {}, nil
	}
}
