package payment

import "errors"

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrBookingCancelled = errors.New("booking is cancelled")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidMethod    = errors.New("unknown payment method")
	ErrAlreadyPaid      = errors.New("payment is already paid")
	ErrAlreadyRefunded  = errors.New("payment is already refunded")
	ErrNotPaid          = errors.New("payment is not paid")
	ErrNotCapturable    = errors.New("payment method is settled at the property, not captured")
	ErrInvoiceState     = errors.New("operation not allowed in current invoice status")
	ErrInvoiceConflict  = errors.New("invoice creation kept conflicting with concurrent writers")
)
