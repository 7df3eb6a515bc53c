package provider

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type CreateInput struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	ReturnURL   string
}

type Amount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type Confirmation struct {
	Type            string `json:"type"`
	ConfirmationURL string `json:"confirmation_url,omitempty"`
	ReturnURL       string `json:"return_url,omitempty"`
}

// RemotePayment is the gateway-side view of a payment.
type RemotePayment struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Amount       Amount        `json:"amount"`
	Description  string        `json:"description,omitempty"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	CreatedAt    string        `json:"created_at"`
	Test         bool          `json:"test"`
	Paid         bool          `json:"paid"`
	Refundable   bool          `json:"refundable"`
}

func (p *RemotePayment) ConfirmationURL() string {
	if p == nil || p.Confirmation == nil {
		return ""
	}
	return p.Confirmation.ConfirmationURL
}

// GatewayError is returned when the gateway answers with a non-success status.
type GatewayError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("yookassa %s failed: status=%d body=%s", e.Operation, e.StatusCode, e.Body)
}

type Gateway interface {
	CreatePayment(ctx context.Context, input *CreateInput) (*RemotePayment, error)
	GetPayment(ctx context.Context, externalID string) (*RemotePayment, error)
}
