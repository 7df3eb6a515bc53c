package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/entity"
)

var reconcilableStatuses = []entity.PaymentStatus{
	entity.PaymentStatusPending,
	entity.PaymentStatusWaitingForCapture,
}

// RunReconcileBatch asks the gateway for the current status of payments that
// have not changed for ReconcileStaleAfter and applies it locally.
func (s *PaymentService) RunReconcileBatch(ctx context.Context) error {
	before := s.now().UTC().Add(-s.paymentsCfg.ReconcileStaleAfter)
	items, err := s.store.ListStale(ctx, reconcilableStatuses, before, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, payment := range items {
		if payment == nil || payment.ExternalID == nil || strings.TrimSpace(*payment.ExternalID) == "" {
			continue
		}
		externalID := strings.TrimSpace(*payment.ExternalID)

		remote, err := s.gateway.GetPayment(ctx, externalID)
		if err != nil {
			firstErr = keepFirstErr(firstErr, fmt.Errorf("%w: %w", ErrGateway, err))
			continue
		}

		next := entity.PaymentStatus(remote.Status)
		if !next.Valid() {
			firstErr = keepFirstErr(firstErr, fmt.Errorf("%w: %q for payment %s", ErrInvalidStatus, remote.Status, payment.ID))
			continue
		}
		if next == payment.Status {
			continue
		}

		logger := s.logger.WithFields(logrus.Fields{
			"source":      "reconcile",
			"external_id": externalID,
		})
		if _, err := s.applyStatus(ctx, payment, next, logger); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}
