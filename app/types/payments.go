package types

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

const (
	NotificationType = "notification"

	ConfirmationTypeQR = "qr"
)

var (
	MinPaymentAmount = decimal.NewFromInt(1)
	MaxPaymentAmount = decimal.NewFromInt(100000)
)

var (
	ErrAmountOutOfRange    = errors.New("Payment amount must be between 1 and 100000 rubles")
	ErrAmountNotNumber     = errors.New("amount must be a JSON number")
	ErrEmptyNotification   = errors.New("notification body is empty")
	ErrInvalidNotification = errors.New("invalid notification envelope")
)

type CreatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
}

func (r *CreatePaymentRequest) GetAmount() decimal.Decimal {
	if r == nil {
		return decimal.Zero
	}
	return r.Amount
}

func (r *CreatePaymentRequest) GetDescription() string {
	if r == nil {
		return ""
	}
	return r.Description
}

func NewCreatePaymentRequestFromContext(ctx echo.Context) (*CreatePaymentRequest, error) {
	var body struct {
		Amount      json.RawMessage `json:"amount"`
		Description string          `json:"description"`
	}
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	amount, err := parseAmountNumber(body.Amount)
	if err != nil {
		return nil, err
	}

	return &CreatePaymentRequest{
		Amount:      amount,
		Description: strings.TrimSpace(body.Description),
	}, nil
}

// parseAmountNumber accepts a bare JSON number only. A missing or null amount
// reads as zero and fails the range check later.
func parseAmountNumber(raw json.RawMessage) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		return decimal.Zero, ErrAmountNotNumber
	}

	var number json.Number
	if err := json.Unmarshal(raw, &number); err != nil {
		return decimal.Zero, ErrAmountNotNumber
	}
	return decimal.NewFromString(number.String())
}

func (r *CreatePaymentRequest) Validate() error {
	if !AmountInRange(r.GetAmount()) {
		return ErrAmountOutOfRange
	}
	return nil
}

// AmountInRange reports whether amount lies in the inclusive payment bounds.
func AmountInRange(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(MinPaymentAmount) && amount.LessThanOrEqual(MaxPaymentAmount)
}

type GetPaymentRequest struct {
	Id string `json:"id"`
}

func (r *GetPaymentRequest) GetId() string {
	if r == nil {
		return ""
	}
	return r.Id
}

func NewGetPaymentRequestFromContext(ctx echo.Context) (*GetPaymentRequest, error) {
	return &GetPaymentRequest{Id: strings.TrimSpace(ctx.Param("id"))}, nil
}

func (r *GetPaymentRequest) Validate() error {
	if r.GetId() == "" {
		return errors.New("payment id is required")
	}
	return nil
}

type NotificationObject struct {
	Id     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// WebhookNotification is the gateway's notification envelope. Fields other
// than the ones below are accepted and ignored.
type WebhookNotification struct {
	Type   string             `json:"type"`
	Event  string             `json:"event"`
	Object NotificationObject `json:"object"`
}

func (r *WebhookNotification) GetType() string {
	if r == nil {
		return ""
	}
	return r.Type
}

func (r *WebhookNotification) GetEvent() string {
	if r == nil {
		return ""
	}
	return r.Event
}

func (r *WebhookNotification) GetObjectId() string {
	if r == nil {
		return ""
	}
	return r.Object.Id
}

func NewWebhookNotificationFromContext(ctx echo.Context) (*WebhookNotification, error) {
	rawBody, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, err
	}
	return ParseWebhookNotification(rawBody)
}

func ParseWebhookNotification(rawBody []byte) (*WebhookNotification, error) {
	if len(strings.TrimSpace(string(rawBody))) == 0 {
		return nil, ErrEmptyNotification
	}

	var body WebhookNotification
	if err := json.Unmarshal(rawBody, &body); err != nil {
		return nil, err
	}

	return &body, nil
}

// Validate checks the envelope as delivered; values are never normalized, so
// " notification " is not a notification.
func (r *WebhookNotification) Validate() error {
	if r.GetType() != NotificationType {
		return ErrInvalidNotification
	}
	if strings.TrimSpace(r.GetEvent()) == "" || strings.TrimSpace(r.GetObjectId()) == "" {
		return ErrInvalidNotification
	}
	return nil
}
