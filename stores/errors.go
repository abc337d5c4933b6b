package stores

import (
	"errors"

	"github.com/Adeboye22/user-fuelup/clients"
	"github.com/Adeboye22/user-fuelup/validation"
)

var (
	ErrUnauthorized     = clients.ErrUnauthorized
	ErrValidation       = validation.ErrInvalid
	ErrEmailNotVerified = errors.New("email not verified")
	ErrAddressNotFound  = errors.New("address not found")
	ErrNotCancellable   = errors.New("order can no longer be cancelled")
	ErrSessionNotFound  = errors.New("session not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNoPaymentLink    = errors.New("payment link not available")
)

// Message returns the text to show the user for err, falling back to
// fallback for transport failures and unknown errors.
func Message(err error, fallback string) string {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.First()
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	switch {
	case errors.Is(err, ErrEmailNotVerified):
		return "Please verify your email address to continue"
	case errors.Is(err, ErrAddressNotFound):
		return "Address not found"
	case errors.Is(err, ErrNotCancellable):
		return "This order can no longer be cancelled"
	case errors.Is(err, ErrOrderNotFound):
		return "Order not found or you don't have permission to view it"
	case errors.Is(err, ErrNoPaymentLink):
		return "Payment link not available"
	}
	return fallback
}
