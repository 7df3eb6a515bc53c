package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/entity"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/factory"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/provider"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
	"github.com/vibast-solutions/ms-go-sbp-checkout/config"
)

const (
	defaultBatchSize      = int32(100)
	defaultCurrency       = "RUB"
	defaultGatewayTimeout = 20 * time.Second
)

type createPaymentRequest interface {
	GetAmount() decimal.Decimal
	GetDescription() string
}

type paymentStore interface {
	Save(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id string) (*entity.Payment, error)
	FindByExternalID(ctx context.Context, externalID string) (*entity.Payment, error)
	UpdateStatusFrom(ctx context.Context, id string, from, to entity.PaymentStatus) (*entity.Payment, error)
	ListStale(ctx context.Context, statuses []entity.PaymentStatus, updatedBefore time.Time, limit int32) ([]*entity.Payment, error)
}

type PaymentService struct {
	store       paymentStore
	gateway     provider.Gateway
	paymentsCfg config.PaymentsConfig
	returnURL   string
	logger      logrus.FieldLogger
	now         func() time.Time
}

func NewPaymentService(
	store paymentStore,
	gateway provider.Gateway,
	paymentsCfg config.PaymentsConfig,
	returnURL string,
) *PaymentService {
	if strings.TrimSpace(paymentsCfg.Currency) == "" {
		paymentsCfg.Currency = defaultCurrency
	}
	if paymentsCfg.GatewayTimeout <= 0 {
		paymentsCfg.GatewayTimeout = defaultGatewayTimeout
	}

	return &PaymentService{
		store:       store,
		gateway:     gateway,
		paymentsCfg: paymentsCfg,
		returnURL:   strings.TrimSpace(returnURL),
		logger:      factory.NewModuleLogger("payments-service"),
		now:         time.Now,
	}
}

func (s *PaymentService) CreatePayment(ctx context.Context, req createPaymentRequest) (*entity.Payment, error) {
	amount := req.GetAmount()
	if !types.AmountInRange(amount) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, types.ErrAmountOutOfRange.Error())
	}
	description := strings.TrimSpace(req.GetDescription())

	gatewayCtx, cancel := context.WithTimeout(ctx, s.paymentsCfg.GatewayTimeout)
	defer cancel()

	remote, err := s.gateway.CreatePayment(gatewayCtx, &provider.CreateInput{
		Amount:      amount,
		Currency:    s.paymentsCfg.Currency,
		Description: description,
		ReturnURL:   s.returnURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, err)
	}
	if remote == nil || strings.TrimSpace(remote.ID) == "" {
		return nil, fmt.Errorf("%w: gateway returned no payment id", ErrGateway)
	}

	status := entity.PaymentStatus(remote.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: gateway returned unknown status %q", ErrGateway, remote.Status)
	}

	now := s.now().UTC()
	createdAt := parseGatewayTime(remote.CreatedAt, now)
	externalID := remote.ID

	if strings.TrimSpace(remote.Description) != "" {
		description = remote.Description
	}

	payment := &entity.Payment{
		ID:              uuid.NewString(),
		ExternalID:      &externalID,
		Amount:          amount,
		Currency:        s.paymentsCfg.Currency,
		Status:          status,
		ConfirmationURL: remote.ConfirmationURL(),
		Description:     normalizeOptionalString(description),
		Test:            remote.Test,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	if err := s.store.Save(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id":  payment.ID,
		"external_id": externalID,
		"amount":      amount.StringFixed(2),
		"status":      payment.Status,
	}).Info("Payment created")

	return payment, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id string) (*entity.Payment, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrPaymentNotFound
	}

	payment, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

func (s *PaymentService) batchSize() int32 {
	if s.paymentsCfg.JobBatchSize > 0 {
		return s.paymentsCfg.JobBatchSize
	}
	return defaultBatchSize
}

func parseGatewayTime(value string, fallback time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return fallback
	}
	return parsed.UTC()
}

func normalizeOptionalString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
