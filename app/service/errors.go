package service

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrGateway             = errors.New("payment gateway request failed")
	ErrInvalidNotification = errors.New("invalid notification")
	ErrInvalidStatus       = errors.New("invalid status")
)
