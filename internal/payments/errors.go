package payments

import (
	"errors"
	"fmt"
	"net/http"
)

// ConfigurationError means a provider credential or secret is missing. It is
// fatal to the request and never retried.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return "missing configuration: " + e.Missing
}

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

type NotFoundError struct {
	What string
}

func (e *NotFoundError) Error() string {
	return e.What + " not found"
}

// DuplicatePurchaseError: the user already owns the course; no provider call
// was made.
type DuplicatePurchaseError struct {
	CourseID uint
}

func (e *DuplicatePurchaseError) Error() string {
	return fmt.Sprintf("course %d already purchased", e.CourseID)
}

// PaymentNotAuthorizedError: the provider's authoritative status for the
// payment is not a paid one.
type PaymentNotAuthorizedError struct {
	PaymentID string
	Status    string
}

func (e *PaymentNotAuthorizedError) Error() string {
	return fmt.Sprintf("payment %s not authorized (status %q)", e.PaymentID, e.Status)
}

type SignatureError struct {
	Provider string
}

func (e *SignatureError) Error() string {
	return e.Provider + " webhook signature verification failed"
}

// ProviderError carries the upstream provider's diagnostic message and HTTP
// status when available.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s rejected the request (%d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s rejected the request: %s", e.Provider, e.Message)
}

// HTTPStatus maps a payment error onto the response status the request
// boundary should answer with.
func HTTPStatus(err error) int {
	var (
		cfgErr  *ConfigurationError
		valErr  *ValidationError
		nfErr   *NotFoundError
		dupErr  *DuplicatePurchaseError
		authErr *PaymentNotAuthorizedError
		sigErr  *SignatureError
		provErr *ProviderError
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.As(err, &valErr):
		return http.StatusBadRequest
	case errors.As(err, &nfErr):
		return http.StatusNotFound
	case errors.As(err, &dupErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		return http.StatusBadRequest
	case errors.As(err, &sigErr):
		return http.StatusUnauthorized
	case errors.As(err, &provErr):
		if provErr.StatusCode > 0 {
			return provErr.StatusCode
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
