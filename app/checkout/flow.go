package checkout

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/skip2/go-qrcode"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
)

type State int

const (
	StateForm State = iota
	StateQR
	StateStatus
	StateDone
)

func (s State) String() string {
	switch s {
	case StateForm:
		return "form"
	case StateQR:
		return "qr"
	case StateStatus:
		return "status"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

type PaymentsAPI interface {
	StatusFetcher
	CreatePayment(ctx context.Context, req *types.CreatePaymentRequest) (*types.CreatePaymentResponse, error)
}

// Flow walks one payment through form, QR display and status polling,
// writing everything the user sees to out.
type Flow struct {
	api      PaymentsAPI
	out      io.Writer
	interval time.Duration
	state    State
}

func NewFlow(api PaymentsAPI, out io.Writer, interval time.Duration) *Flow {
	return &Flow{api: api, out: out, interval: interval, state: StateForm}
}

func (f *Flow) State() State {
	return f.state
}

func (f *Flow) Run(ctx context.Context, form Form) (*types.PaymentStatusResponse, error) {
	f.state = StateForm
	req, err := form.Parse()
	if err != nil {
		return nil, err
	}

	created, err := f.api.CreatePayment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	f.state = StateQR
	if err := f.renderQR(created); err != nil {
		return nil, err
	}

	f.state = StateStatus
	fmt.Fprintln(f.out, "Monitoring payment status (updates every "+f.pollInterval().String()+")")

	var lastStatus string
	final, err := NewPoller(f.api, f.pollInterval()).Run(ctx, created.ID, func(update Update) {
		if update.Err != nil {
			fmt.Fprintf(f.out, "Failed to fetch payment status: %v\n", update.Err)
			return
		}
		if update.Payment.Status != lastStatus {
			lastStatus = update.Payment.Status
			fmt.Fprintln(f.out, StatusMessage(lastStatus))
		}
	})
	if err != nil {
		return final, err
	}

	f.state = StateDone
	f.renderSummary(final)
	return final, nil
}

func (f *Flow) pollInterval() time.Duration {
	if f.interval <= 0 {
		return DefaultPollInterval
	}
	return f.interval
}

func (f *Flow) renderQR(created *types.CreatePaymentResponse) error {
	url := created.Confirmation.ConfirmationURL
	qr, err := RenderQR(url)
	if err != nil {
		return err
	}

	fmt.Fprintf(f.out, "Scan to pay %s %s\n", created.Amount.Value, created.Amount.Currency)
	fmt.Fprint(f.out, qr)
	fmt.Fprintf(f.out, "Or open: %s\n", url)
	if created.Test {
		fmt.Fprintln(f.out, "TEST MODE")
	}
	return nil
}

func (f *Flow) renderSummary(payment *types.PaymentStatusResponse) {
	fmt.Fprintf(f.out, "Payment ID: %s\n", payment.ID)
	fmt.Fprintf(f.out, "Amount: %s %s\n", payment.Amount.Value, payment.Amount.Currency)
	if payment.Description != "" {
		fmt.Fprintf(f.out, "Description: %s\n", payment.Description)
	}
	if payment.PaidAt != "" {
		fmt.Fprintf(f.out, "Paid at: %s\n", payment.PaidAt)
	}
}

// RenderQR encodes content as a QR code drawn with terminal block characters.
func RenderQR(content string) (string, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return "", err
	}
	return qr.ToSmallString(false), nil
}

func StatusMessage(status string) string {
	switch status {
	case "succeeded":
		return "Payment completed successfully!"
	case "canceled":
		return "Payment was canceled"
	case "pending":
		return "Waiting for payment..."
	case "waiting_for_capture":
		return "Payment authorized, waiting for capture..."
	default:
		return "Checking payment status..."
	}
}
