package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/artem13815/resumepay/pkg/payment"
)

// Client talks to a hosted-checkout API over JSON:
// POST {BaseURL}/checkout/sessions -> {"id": "...", "url": "..."}.
type Client struct {
	APIKey   string
	BaseURL  string
	Provider string
	httpDo   *http.Client
}

var _ payment.Provider = (*Client)(nil)

func New(apiKey, baseURL, provider string) *Client {
	if provider == "" {
		provider = "hosted"
	}
	return &Client{
		APIKey:   apiKey,
		BaseURL:  baseURL,
		Provider: provider,
		httpDo: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Name() string { return c.Provider }

type createSessionRequest struct {
	OrderID     string `json:"orderId"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
	SuccessURL  string `json:"successUrl,omitempty"`
	CancelURL   string `json:"cancelUrl,omitempty"`
}

type createSessionResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession opens a checkout page for one order. The order id is
// sent as the idempotency key, so retries reuse the provider's session.
func (c *Client) CreateCheckoutSession(ctx context.Context, req payment.CheckoutRequest) (payment.Session, error) {
	if c.APIKey == "" {
		return payment.Session{}, fmt.Errorf("%w: api key is empty", payment.ErrProvider)
	}
	if c.BaseURL == "" {
		return payment.Session{}, fmt.Errorf("%w: base url is empty", payment.ErrProvider)
	}
	data, err := json.Marshal(createSessionRequest{
		OrderID:     req.OrderID,
		Amount:      req.AmountMinor,
		Currency:    req.Currency,
		Description: req.Description,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
	})
	if err != nil {
		return payment.Session{}, err
	}

	endpoint := fmt.Sprintf("%s/checkout/sessions", c.BaseURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return payment.Session{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Idempotency-Key", "checkout-"+req.OrderID)

	resp, err := c.httpDo.Do(httpReq)
	if err != nil {
		return payment.Session{}, fmt.Errorf("%w: %v", payment.ErrProvider, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errMap map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&errMap)
		return payment.Session{}, fmt.Errorf("%w: http %d: %v", payment.ErrProvider, resp.StatusCode, errMap)
	}
	var out createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return payment.Session{}, fmt.Errorf("%w: decode response: %v", payment.ErrProvider, err)
	}
	if out.ID == "" {
		return payment.Session{}, fmt.Errorf("%w: empty session id", payment.ErrProvider)
	}
	return payment.Session{ID: out.ID, RedirectURL: out.URL}, nil
}
