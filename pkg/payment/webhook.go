package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// SignatureHeader carries the hex HMAC-SHA256 of the raw webhook body.
const SignatureHeader = "X-Signature"

// EventCheckoutCompleted is the only event type that confirms a payment.
const EventCheckoutCompleted = "checkout.completed"

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")
)

// Event is the webhook payload sent by the provider.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	Provider  string `json:"provider"`
	SessionID string `json:"sessionId"`
}

// Confirms reports whether the event is a completed checkout.
func (e Event) Confirms() bool { return e.Type == EventCheckoutCompleted }

// ParseEvent decodes a webhook body.
func ParseEvent(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("%w: missing type", ErrMalformedEvent)
	}
	return ev, nil
}

// Sign returns the signature the provider puts into SignatureHeader.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks header against body. An empty secret disables the check.
func VerifySignature(body []byte, header, secret string) error {
	if secret == "" {
		return nil
	}
	got, err := hex.DecodeString(strings.TrimSpace(strings.TrimPrefix(header, "sha256=")))
	if err != nil || len(got) == 0 {
		return ErrInvalidSignature
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return ErrInvalidSignature
	}
	return nil
}
