package mock

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/artem13815/resumepay/pkg/payment"
)

// ErrUnknownSession is returned by Complete for a session it never opened.
var ErrUnknownSession = errors.New("mock: unknown checkout session")

// Gateway is an in-process stand-in for a hosted checkout. It keeps one
// session per order and can produce the webhook event a real provider would send.
type Gateway struct {
	mu       sync.RWMutex
	baseURL  string
	byOrder  map[string]payment.Session
	orderFor map[string]string // session id -> order id
}

var _ payment.Provider = (*Gateway)(nil)

func New(baseURL string) *Gateway {
	return &Gateway{
		baseURL:  strings.TrimRight(baseURL, "/"),
		byOrder:  make(map[string]payment.Session),
		orderFor: make(map[string]string),
	}
}

func (g *Gateway) Name() string { return "mock" }

func (g *Gateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (payment.Session, error) {
	g.mu.RLock()
	if s, ok := g.byOrder[req.OrderID]; ok {
		g.mu.RUnlock()
		return s, nil
	}
	g.mu.RUnlock()

	g.mu.Lock()
	defer g.mu.Unlock()
	if s, ok := g.byOrder[req.OrderID]; ok {
		return s, nil
	}
	id := "cs_mock_" + uuid.NewString()
	s := payment.Session{ID: id, RedirectURL: g.baseURL + "/api/v1/mock-checkout/" + id + "/complete"}
	g.byOrder[req.OrderID] = s
	g.orderFor[id] = req.OrderID
	return s, nil
}

// Complete simulates a successful payment and returns the resulting webhook event.
func (g *Gateway) Complete(sessionID string) (payment.Event, error) {
	g.mu.RLock()
	orderID, ok := g.orderFor[sessionID]
	g.mu.RUnlock()
	if !ok {
		return payment.Event{}, ErrUnknownSession
	}
	return payment.Event{
		ID:   "evt_" + uuid.NewString(),
		Type: payment.EventCheckoutCompleted,
		Data: payment.EventData{
			OrderID:   orderID,
			Status:    "paid",
			Provider:  g.Name(),
			SessionID: sessionID,
		},
	}, nil
}
