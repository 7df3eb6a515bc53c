package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/factory"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/mapper"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/service"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
	"github.com/vibast-solutions/ms-go-sbp-checkout/config"
)

const (
	rootMessage = "YooKassa Payment Backend"

	errorCodeInvalidRequest = "invalid_request"
	errorCodeNotFound       = "not_found"
	errorCodeInternal       = "internal_error"

	messageInvalidBody     = "Invalid request body"
	messageCreateFailed    = "Failed to create payment"
	messagePaymentNotFound = "Payment with specified ID not found"
	messageGetStatusFailed = "Failed to retrieve payment status"
)

type PaymentController struct {
	paymentService *service.PaymentService
	appCfg         config.AppConfig
	logger         logrus.FieldLogger
	now            func() time.Time
}

func NewPaymentController(paymentService *service.PaymentService, appCfg config.AppConfig) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
		appCfg:         appCfg,
		logger:         factory.NewModuleLogger("payments-controller"),
		now:            time.Now,
	}
}

func (c *PaymentController) Root(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.RootResponse{
		Message:     rootMessage,
		Version:     c.appCfg.Version,
		Environment: c.appCfg.Environment,
	})
}

func (c *PaymentController) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, &types.HealthResponse{
		Status:    "ok",
		Timestamp: mapper.FormatTimestamp(c.now()),
	})
}

func (c *PaymentController) CreatePayment(ctx echo.Context) error {
	req, err := types.NewCreatePaymentRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, errorCodeInvalidRequest, messageInvalidBody)
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, errorCodeInvalidRequest, err.Error())
	}

	item, err := c.paymentService.CreatePayment(ctx.Request().Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.writeError(ctx, http.StatusBadRequest, errorCodeInvalidRequest, invalidRequestMessage(err))
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Create payment failed")
		return c.writeError(ctx, http.StatusInternalServerError, errorCodeInternal, messageCreateFailed)
	}

	return ctx.JSON(http.StatusCreated, mapper.PaymentToCreateResponse(item))
}

func (c *PaymentController) GetPayment(ctx echo.Context) error {
	req, err := types.NewGetPaymentRequestFromContext(ctx)
	if err != nil || req.Validate() != nil {
		return c.writeError(ctx, http.StatusNotFound, errorCodeNotFound, messagePaymentNotFound)
	}

	item, err := c.paymentService.GetPayment(ctx.Request().Context(), req.GetId())
	if err != nil {
		if errors.Is(err, service.ErrPaymentNotFound) {
			return c.writeError(ctx, http.StatusNotFound, errorCodeNotFound, messagePaymentNotFound)
		}
		factory.LoggerWithContext(c.logger, ctx).WithError(err).Error("Get payment failed")
		return c.writeError(ctx, http.StatusInternalServerError, errorCodeInternal, messageGetStatusFailed)
	}

	return ctx.JSON(http.StatusOK, mapper.PaymentToStatusResponse(item))
}

// HandleYooKassaWebhook answers 200 for every notification it could read,
// including ones it chose to ignore. Only malformed envelopes (400) and
// processing faults (500) are reported, both with an empty body.
func (c *PaymentController) HandleYooKassaWebhook(ctx echo.Context) error {
	logger := factory.LoggerWithContext(c.logger, ctx)

	req, err := types.NewWebhookNotificationFromContext(ctx)
	if err != nil {
		logger.WithError(err).Warn("Unreadable webhook notification")
		return ctx.NoContent(http.StatusBadRequest)
	}
	if err := req.Validate(); err != nil {
		logger.WithError(err).Warn("Malformed webhook notification")
		return ctx.NoContent(http.StatusBadRequest)
	}

	if _, err := c.paymentService.HandleNotification(ctx.Request().Context(), req); err != nil {
		if errors.Is(err, service.ErrInvalidNotification) {
			return ctx.NoContent(http.StatusBadRequest)
		}
		logger.WithError(err).Error("Webhook processing failed")
		return ctx.NoContent(http.StatusInternalServerError)
	}

	return ctx.JSON(http.StatusOK, &types.WebhookAckResponse{Success: true})
}

func (c *PaymentController) writeError(ctx echo.Context, statusCode int, code string, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: types.ErrorDetail{Code: code, Message: message}})
}

func invalidRequestMessage(err error) string {
	message := strings.TrimPrefix(err.Error(), service.ErrInvalidRequest.Error()+": ")
	if message == "" {
		return service.ErrInvalidRequest.Error()
	}
	return message
}
