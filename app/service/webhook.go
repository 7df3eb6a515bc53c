package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/entity"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/repository"
	"github.com/vibast-solutions/ms-go-sbp-checkout/app/types"
)

const maxTransitionAttempts = 3

var notificationEvents = map[string]entity.PaymentStatus{
	"payment.succeeded":           entity.PaymentStatusSucceeded,
	"payment.canceled":            entity.PaymentStatusCanceled,
	"payment.waiting_for_capture": entity.PaymentStatusWaitingForCapture,
}

type webhookNotification interface {
	GetType() string
	GetEvent() string
	GetObjectId() string
}

// HandleNotification applies a gateway notification to the matching local
// payment. A nil payment with a nil error means the notification was
// acknowledged without a matching record.
func (s *PaymentService) HandleNotification(ctx context.Context, req webhookNotification) (*entity.Payment, error) {
	event := req.GetEvent()
	externalID := req.GetObjectId()
	if req.GetType() != types.NotificationType || strings.TrimSpace(event) == "" || strings.TrimSpace(externalID) == "" {
		return nil, ErrInvalidNotification
	}

	logger := s.logger.WithFields(logrus.Fields{
		"event":       event,
		"external_id": externalID,
	})

	payment, err := s.store.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		logger.Warn("Notification for unknown payment")
		return nil, nil
	}

	next, ok := notificationEvents[event]
	if !ok {
		logger.WithField("payment_id", payment.ID).Info("Unhandled notification event")
		return payment, nil
	}

	return s.applyStatus(ctx, payment, next, logger)
}

// applyStatus moves the payment to next when the state machine allows it.
// Disallowed and repeated transitions leave the record untouched.
func (s *PaymentService) applyStatus(ctx context.Context, payment *entity.Payment, next entity.PaymentStatus, logger logrus.FieldLogger) (*entity.Payment, error) {
	current := payment
	logger = logger.WithField("payment_id", payment.ID)

	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		if current.Status == next {
			return current, nil
		}
		if !current.Status.CanTransitionTo(next) {
			logger.WithFields(logrus.Fields{
				"from": current.Status,
				"to":   next,
			}).Warn("Ignoring disallowed status transition")
			return current, nil
		}

		updated, err := s.store.UpdateStatusFrom(ctx, current.ID, current.Status, next)
		if err == nil {
			if updated != nil {
				logger.WithFields(logrus.Fields{
					"from": current.Status,
					"to":   updated.Status,
				}).Info("Payment status updated")
			}
			return updated, nil
		}
		if !errors.Is(err, repository.ErrStatusConflict) {
			return nil, err
		}

		current, err = s.store.FindByID(ctx, current.ID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, nil
		}
	}

	return nil, fmt.Errorf("payment %s: %w", payment.ID, repository.ErrStatusConflict)
}
