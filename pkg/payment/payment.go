package payment

import (
	"context"
	"errors"
)

// ErrProvider wraps every failure reported by (or while talking to) a provider.
var ErrProvider = errors.New("payment provider error")

// CheckoutRequest describes a hosted checkout page for a single order.
type CheckoutRequest struct {
	OrderID     string
	AmountMinor int64 // cents
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
}

// Session is a checkout session opened at the provider.
type Session struct {
	ID          string `json:"sessionId"`
	RedirectURL string `json:"redirectUrl"`
}

// Provider opens checkout sessions. Payment results arrive later through the webhook.
type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (Session, error)
}
