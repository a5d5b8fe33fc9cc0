// Package apperrors carries the typed error kinds returned by the workflow
// engines. Every validation failure is returned to the caller as one of
// these kinds; handlers map them to HTTP codes and the API error envelope.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

type Kind string

const (
	KindProductInactive        Kind = "PRODUCT_INACTIVE"
	KindGeoIneligible          Kind = "GEO_INELIGIBLE"
	KindAlreadyDecided         Kind = "ALREADY_DECIDED"
	KindSubscriptionTerminal   Kind = "SUBSCRIPTION_TERMINAL"
	KindUnauthorized           Kind = "UNAUTHORIZED"
	KindNoActiveSubscription   Kind = "NO_ACTIVE_SUBSCRIPTION"
	KindNoEligibleHospital     Kind = "NO_ELIGIBLE_HOSPITAL"
	KindInvalidTransition      Kind = "INVALID_TRANSITION"
	KindAlertNotAssigned       Kind = "ALERT_NOT_ASSIGNED"
	KindInvalidStayState       Kind = "INVALID_STAY_STATE"
	KindOutOfOrder             Kind = "OUT_OF_ORDER"
	KindTimeout                Kind = "TIMEOUT"
	KindNotFound               Kind = "NOT_FOUND"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	KindInvalidInput           Kind = "INVALID_INPUT"
	KindInternal               Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain. Deadline expiry anywhere in
// the chain is reported as KindTimeout so callers can distinguish transient
// failures from invariant violations.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
