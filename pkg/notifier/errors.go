package notifier

import "errors"

// Predefined errors for the notifier package.
var (
	ErrDeliveryFailed   = errors.New("webhook delivery failed")
	ErrPermanentFailure = errors.New("permanent webhook failure")
	ErrInvalidURL       = errors.New("invalid webhook URL")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
