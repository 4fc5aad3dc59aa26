package service

import "errors"

var (
	// ErrSignatureMismatch: the event is inauthentic. Logged as
	// security-relevant, never retried.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrMalformedEvent: required fields missing from the event or
	// verification request.
	ErrMalformedEvent = errors.New("malformed payment event")

	// ErrPaymentNotCaptured: the gateway does not report the payment as
	// captured, so there is nothing to reconcile.
	ErrPaymentNotCaptured = errors.New("payment not captured")

	// ErrOfferingNotFound: the notes reference a course offering this
	// system does not know about.
	ErrOfferingNotFound = errors.New("course offering not found")
)
