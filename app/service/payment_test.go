package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/entity"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/provider"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/repository"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
	"github.com/vibast-solutions/ms-go-sbp-checkout/config"
)

type fakeGateway struct {
	mu          sync.Mutex
	createCalls []*provider.CreateInput
	getCalls    []string
	nextID      int
	status      string
	createErr   error
	remote      map[string]*provider.RemotePayment
	getErr      error
	block       bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		status: "pending",
		remote: map[string]*provider.RemotePayment{},
	}
}

func (g *fakeGateway) CreatePayment(ctx context.Context, input *provider.CreateInput) (*provider.RemotePayment, error) {
	if g.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.createCalls = append(g.createCalls, input)
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextID++
	id := fmt.Sprintf("ext-%d", g.nextID)
	remote := &provider.RemotePayment{
		ID:     id,
		Status: g.status,
		Amount: provider.Amount{Value: input.Amount.StringFixed(2), Currency: input.Currency},
		Confirmation: &provider.Confirmation{
			Type:            "redirect",
			ConfirmationURL: "https://yoomoney.ru/checkout?orderId=" + id,
		},
		Description: input.Description,
		CreatedAt:   "2026-10-15T10:00:00.000Z",
		Test:        true,
	}
	g.remote[id] = remote
	return remote, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, externalID string) (*provider.RemotePayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.getCalls = append(g.getCalls, externalID)
	if g.getErr != nil {
		return nil, g.getErr
	}
	remote, ok := g.remote[externalID]
	if !ok {
		return nil, &provider.GatewayError{Operation: "get payment", StatusCode: 404}
	}
	copyItem := *remote
	return &copyItem, nil
}

func (g *fakeGateway) setRemoteStatus(externalID, status string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.remote[externalID].Status = status
}

type failingStore struct {
	*repository.MemoryPaymentStore
	err error
}

func (s *failingStore) FindByExternalID(_ context.Context, _ string) (*entity.Payment, error) {
	return nil, s.err
}

func (s *failingStore) Save(_ context.Context, _ *entity.Payment) error {
	return s.err
}

func newTestService(store paymentStore, gateway provider.Gateway) *PaymentService {
	return NewPaymentService(store, gateway, config.PaymentsConfig{
		Currency:            "RUB",
		GatewayTimeout:      time.Second,
		ReconcileStaleAfter: time.Minute,
		JobBatchSize:        10,
	}, "http://localhost:5173")
}

func createRequest(amount string, description string) *types.CreatePaymentRequest {
	return &types.CreatePaymentRequest{Amount: decimal.RequireFromString(amount), Description: description}
}

func TestCreatePaymentWithinBounds(t *testing.T) {
	for _, amount := range []string{"1", "150", "99.99", "100000"} {
		store := repository.NewMemoryPaymentStore()
		gateway := newFakeGateway()
		svc := newTestService(store, gateway)

		payment, err := svc.CreatePayment(context.Background(), createRequest(amount, ""))
		require.NoError(t, err, amount)

		stored, err := store.FindByID(context.Background(), payment.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
		require.True(t, stored.Amount.Equal(decimal.RequireFromString(amount)), amount)
		require.Len(t, gateway.createCalls, 1)
	}
}

func TestCreatePaymentOutOfBoundsNeverCallsGateway(t *testing.T) {
	for _, amount := range []string{"0", "0.5", "-1", "100000.01", "200000"} {
		store := repository.NewMemoryPaymentStore()
		gateway := newFakeGateway()
		svc := newTestService(store, gateway)

		_, err := svc.CreatePayment(context.Background(), createRequest(amount, ""))
		require.ErrorIs(t, err, ErrInvalidRequest, amount)
		require.Empty(t, gateway.createCalls, amount)

		all, err := store.GetAll(context.Background())
		require.NoError(t, err)
		require.Empty(t, all, amount)
	}
}

func TestCreatePaymentPassesLongDescriptionThrough(t *testing.T) {
	store := repository.NewMemoryPaymentStore()
	gateway := newFakeGateway()
	svc := newTestService(store, gateway)

	long := strings.Repeat("x", 200)
	payment, err := svc.CreatePayment(context.Background(), createRequest("150", long))
	require.NoError(t, err)
	require.Len(t, gateway.createCalls, 1)
	require.Equal(t, long, gateway.createCalls[0].Description)
	require.NotNil(t, payment.Description)
	require.Equal(t, long, *payment.Description)
}

func TestCreatePaymentPersistsGatewayData(t *testing.T) {
	store := repository.NewMemoryPaymentStore()
	gateway := newFakeGateway()
	svc := newTestService(store, gateway)

	payment, err := svc.CreatePayment(context.Background(), createRequest("150", "x"))
	require.NoError(t, err)

	require.NotEmpty(t, payment.ID)
	require.Equal(t, entity.PaymentStatusPending, payment.Status)
	require.NotNil(t, payment.ExternalID)
	require.Equal(t, "ext-1", *payment.ExternalID)
	require.Equal(t, "https://yoomoney.ru/checkout?orderId=ext-1", payment.ConfirmationURL)
	require.Equal(t, "RUB", payment.Currency)
	require.Equal(t, "x", *payment.Description)
	require.True(t, payment.Test)
	require.Equal(t, time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC), payment.CreatedAt)
	require.Equal(t, payment.CreatedAt, payment.UpdatedAt)

	input := gateway.createCalls[0]
	require.Equal(t, "RUB", input.Currency)
	require.Equal(t, "x", input.Description)
	require.Equal(t, "http://localhost:5173", input.ReturnURL)

	byExternal, err := store.FindByExternalID(context.Background(), "ext-1")
	require.NoError(t, err)
	require.Equal(t, payment.ID, byExternal.ID)
}

func TestCreatePaymentUsesGatewayInitialStatus(t *testing.T) {
	gateway := newFakeGateway()
	gateway.status = "waiting_for_capture"
	svc := newTestService(repository.NewMemoryPaymentStore(), gateway)

	payment, err := svc.CreatePayment(context.Background(), createRequest("10", ""))
	require.NoError(t, err)
	require.Equal(t, entity.PaymentStatusWaitingForCapture, payment.Status)
}

func TestCreatePaymentGatewayFailure(t *testing.T) {
	store := repository.NewMemoryPaymentStore()
	gateway := newFakeGateway()
	gateway.createErr = &provider.GatewayError{Operation: "create payment", StatusCode: 500, Body: "boom"}
	svc := newTestService(store, gateway)

	_, err := svc.CreatePayment(context.Background(), createRequest("10", ""))
	require.ErrorIs(t, err, ErrGateway)

	var gatewayErr *provider.GatewayError
	require.True(t, errors.As(err, &gatewayErr))
	require.Equal(t, 500, gatewayErr.StatusCode)

	all, err := store.GetAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestCreatePaymentGatewayTimeout(t *testing.T) {
	gateway := newFakeGateway()
	gateway.block = true
	svc := NewPaymentService(repository.NewMemoryPaymentStore(), gateway, config.PaymentsConfig{
		GatewayTimeout: 20 * time.Millisecond,
	}, "")

	_, err := svc.CreatePayment(context.Background(), createRequest("10", ""))
	require.ErrorIs(t, err, ErrGateway)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCreatePaymentRejectsUnknownGatewayStatus(t *testing.T) {
	gateway := newFakeGateway()
	gateway.status = "mystery"
	svc := newTestService(repository.NewMemoryPaymentStore(), gateway)

	_, err := svc.CreatePayment(context.Background(), createRequest("10", ""))
	require.ErrorIs(t, err, ErrGateway)
}

func TestCreatePaymentStoreFailure(t *testing.T) {
	storeErr := errors.New("disk full")
	svc := newTestService(&failingStore{MemoryPaymentStore: repository.NewMemoryPaymentStore(), err: storeErr}, newFakeGateway())

	_, err := svc.CreatePayment(context.Background(), createRequest("10", ""))
	require.ErrorIs(t, err, storeErr)
}

func TestGetPayment(t *testing.T) {
	svc := newTestService(repository.NewMemoryPaymentStore(), newFakeGateway())

	created, err := svc.CreatePayment(context.Background(), createRequest("150", ""))
	require.NoError(t, err)

	found, err := svc.GetPayment(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, found.ID)
	require.Nil(t, found.PaidAt())

	_, err = svc.GetPayment(context.Background(), "missing")
	require.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = svc.GetPayment(context.Background(), " ")
	require.ErrorIs(t, err, ErrPaymentNotFound)
}
