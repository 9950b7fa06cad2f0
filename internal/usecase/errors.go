package usecase

import "errors"

// Sentinel errors for the payment flow. Handlers map these onto HTTP status
// codes with errors.Is; everything else is an internal error.
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrNotOwner            = errors.New("appointment belongs to another patient")
	ErrInvalidNotification = errors.New("invalid notification payload")
	ErrInvalidSignature    = errors.New("invalid hash")
	ErrAlreadyPaid         = errors.New("appointment already paid")
)
