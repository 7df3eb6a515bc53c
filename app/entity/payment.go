package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "pending"
	PaymentStatusWaitingForCapture PaymentStatus = "waiting_for_capture"
	PaymentStatusSucceeded         PaymentStatus = "succeeded"
	PaymentStatusCanceled          PaymentStatus = "canceled"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:           {PaymentStatusWaitingForCapture, PaymentStatusSucceeded, PaymentStatusCanceled},
	PaymentStatusWaitingForCapture: {PaymentStatusSucceeded, PaymentStatusCanceled},
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusWaitingForCapture, PaymentStatusSucceeded, PaymentStatusCanceled:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further gateway transition is expected.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSucceeded || s == PaymentStatusCanceled
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Payment struct {
	ID         string
	ExternalID *string

	Amount   decimal.Decimal
	Currency string

	Status          PaymentStatus
	ConfirmationURL string
	Description     *string
	Test            bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaidAt is the time of the last status change for succeeded payments.
func (p *Payment) PaidAt() *time.Time {
	if p.Status != PaymentStatusSucceeded {
		return nil
	}
	paidAt := p.UpdatedAt
	return &paidAt
}

func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	item := *p
	if p.ExternalID != nil {
		externalID := *p.ExternalID
		item.ExternalID = &externalID
	}
	if p.Description != nil {
		description := *p.Description
		item.Description = &description
	}
	return &item
}
