// Package venmo is the payment-network capability: resolving usernames,
// listing friends and issuing payment requests.
package venmo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUserNotFound is returned by FindUser when no account matches the username.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotConfigured is returned when no payment client was set up for the process.
	ErrNotConfigured = errors.New("payment client not initialized")
	// ErrNegativeAmount is returned by RequestPayment for amounts below zero.
	ErrNegativeAmount = errors.New("amount must not be negative")
)

// Profile identifies an account on the payment network.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// Service is what the rest of the program needs from the payment network.
// Implementations must be safe for concurrent use; one value lives for the
// whole process and tests swap in MockService.
type Service interface {
	GetProfile(ctx context.Context) (*Profile, error)
	ListFriends(ctx context.Context, userID string) ([]Profile, error)
	FindUser(ctx context.Context, username string) (*Profile, error)
	RequestPayment(ctx context.Context, amount decimal.Decimal, note, userID string) error
}

// APIError is a non-2xx answer from the payment network.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("payment network returned %d", e.StatusCode)
	}
	return fmt.Sprintf("payment network returned %d: %s", e.StatusCode, e.Message)
}
