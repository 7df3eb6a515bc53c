package checkout

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/entity"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/factory"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
)

const DefaultPollInterval = 3 * time.Second

type StatusFetcher interface {
	GetPaymentStatus(ctx context.Context, id string) (*types.PaymentStatusResponse, error)
}

// Update is one poll result. Exactly one of Payment and Err is set.
type Update struct {
	Payment *types.PaymentStatusResponse
	Err     error
}

// Poller re-fetches a payment's status until it reaches a terminal state or
// the context is done.
type Poller struct {
	fetcher  StatusFetcher
	interval time.Duration
	logger   logrus.FieldLogger
}

func NewPoller(fetcher StatusFetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   factory.NewModuleLogger("checkout-poller"),
	}
}

// Run polls immediately and then once per interval. It returns the terminal
// status, or the last status seen together with the context error.
func (p *Poller) Run(ctx context.Context, paymentID string, onUpdate func(Update)) (*types.PaymentStatusResponse, error) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var last *types.PaymentStatusResponse
	for {
		payment, err := p.fetcher.GetPaymentStatus(ctx, paymentID)
		switch {
		case err != nil && ctx.Err() != nil:
			return last, ctx.Err()
		case err != nil:
			p.logger.WithError(err).WithField("payment_id", paymentID).Debug("Status poll failed")
			notify(onUpdate, Update{Err: err})
		default:
			last = payment
			notify(onUpdate, Update{Payment: payment})
			if IsTerminal(payment.Status) {
				return payment, nil
			}
		}

		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-ticker.C:
		}
	}
}

func IsTerminal(status string) bool {
	return entity.PaymentStatus(status).Terminal()
}

func notify(onUpdate func(Update), update Update) {
	if onUpdate != nil {
		onUpdate(update)
	}
}
