package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/artem13815/resumepay/api/http/handlers"
	"github.com/artem13815/resumepay/api/http/presenter"
	"github.com/artem13815/resumepay/pkg/health"
	"github.com/artem13815/resumepay/pkg/metrics"
	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/payment"
	"github.com/artem13815/resumepay/pkg/payment/mock"
	"github.com/artem13815/resumepay/pkg/repository/memory"
	"github.com/artem13815/resumepay/pkg/resume"
)

const secret = "whsec_test"

type stubModel struct{ reply string }

func (m stubModel) Ask(context.Context, string, string) (string, error) { return m.reply, nil }

type testServer struct {
	app   *fiber.App
	store *memory.OrderRepository
}

func newTestServer(t *testing.T, withProvider bool) *testServer {
	t.Helper()
	store := memory.NewOrderRepository()
	m := metrics.New()
	log := zap.NewNop()

	var provider payment.Provider
	gw := mock.New("http://example.test")
	if withProvider {
		provider = gw
	}
	ledger := order.NewService(store, provider, order.Pricing{Price: decimal.RequireFromString("9.90")}, log, order.WithObserver(m))
	webhooks := handlers.NewWebhookHandler(ledger, secret, log)

	app := fiber.New()
	app.Use(Observe(m))
	Register(app, Handlers{
		Health:       handlers.NewHealthHandler(health.NewService()),
		Orders:       handlers.NewOrderHandler(ledger, order.CheckoutURLs{Success: "http://example.test/ok/{orderId}", Cancel: "http://example.test/cancel"}, log),
		Webhooks:     webhooks,
		Objective:    handlers.NewObjectiveHandler(resume.NewDraftService(stubModel{reply: "  Atuar com dados.  "}, "stub"), log),
		MockCheckout: handlers.NewMockCheckoutHandler(gw, webhooks, log),
		Metrics:      m.Handler(),
	})
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body []byte, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (s *testServer) createOrder(t *testing.T, template string) presenter.OrderView {
	t.Helper()
	body := []byte(`{"template":"` + template + `","data":{"personalInfo":{"name":"Ana Silva","email":"ana@x.com"},
		"experiences":[{"role":"Analista","organization":"ACME","start":"2020"}],"skills":["Go","SQL"]}}`)
	resp := s.do(t, http.MethodPost, "/api/v1/orders", body, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[presenter.OrderView](t, resp)
}

func (s *testServer) scrape(t *testing.T) string {
	t.Helper()
	resp := s.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	text, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(text)
}

func signedEvent(t *testing.T, ev payment.Event) ([]byte, map[string]string) {
	t.Helper()
	body, err := json.Marshal(ev)
	require.NoError(t, err)
	return body, map[string]string{payment.SignatureHeader: payment.Sign(body, secret)}
}

func TestOrderLifecycle_WebhookUnlocksDownload(t *testing.T) {
	s := newTestServer(t, true)
	view := s.createOrder(t, "escuro")
	assert.Equal(t, "modern", view.Template)
	assert.Equal(t, "9.90", view.Price)
	assert.False(t, view.Paid)
	assert.Equal(t, order.StatusPending, view.PaymentStatus)

	resp := s.do(t, http.MethodGet, "/api/v1/orders/"+view.OrderID+"/download", nil, nil)
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/v1/orders/"+view.OrderID+"/checkout", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess := decode[payment.Session](t, resp)
	assert.NotEmpty(t, sess.ID)

	body, headers := signedEvent(t, payment.Event{
		ID:   "evt_1",
		Type: payment.EventCheckoutCompleted,
		Data: payment.EventData{OrderID: view.OrderID, Status: "paid", Provider: "mock", SessionID: sess.ID},
	})
	resp = s.do(t, http.MethodPost, "/api/v1/webhooks/payment", body, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, handlers.WebhookAck{Received: true}, decode[handlers.WebhookAck](t, resp))

	// redelivery is acknowledged and changes nothing
	resp = s.do(t, http.MethodPost, "/api/v1/webhooks/payment", body, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "already_paid", decode[handlers.WebhookAck](t, resp).Ignored)

	resp = s.do(t, http.MethodGet, "/api/v1/orders/"+view.OrderID, nil, nil)
	got := decode[presenter.OrderView](t, resp)
	assert.True(t, got.Paid)
	assert.Equal(t, sess.ID, got.PaymentSessionID)
	assert.Equal(t, "mock", got.PaymentProvider)

	resp = s.do(t, http.MethodGet, "/api/v1/orders/"+view.OrderID+"/download", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "curriculo-"+view.OrderID+".pdf")
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF-")))

	resp = s.do(t, http.MethodPost, "/api/v1/orders/"+view.OrderID+"/checkout", nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	scraped := s.scrape(t)
	assert.Contains(t, scraped, `resumepay_payment_confirmations_total{outcome="applied"} 1`)
	assert.Contains(t, scraped, `resumepay_payment_confirmations_total{outcome="already_paid"} 1`)
	assert.Contains(t, scraped, `resumepay_download_authorizations_total{outcome="granted"} 1`)
	assert.Contains(t, scraped, `resumepay_download_authorizations_total{outcome="payment_required"} 1`)
}

func TestMockCheckoutComplete(t *testing.T) {
	s := newTestServer(t, true)
	view := s.createOrder(t, "classic")

	resp := s.do(t, http.MethodPost, "/api/v1/orders/"+view.OrderID+"/checkout", nil, nil)
	sess := decode[payment.Session](t, resp)
	path := strings.TrimPrefix(sess.RedirectURL, "http://example.test")

	resp = s.do(t, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	o, err := s.store.Get(context.Background(), view.OrderID)
	require.NoError(t, err)
	assert.True(t, o.Paid)

	resp = s.do(t, http.MethodGet, "/api/v1/mock-checkout/cs_mock_nope/complete", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateOrder_Invalid(t *testing.T) {
	s := newTestServer(t, true)

	resp := s.do(t, http.MethodPost, "/api/v1/orders", []byte(`{"data":{"personalInfo":{"name":"Ana"}}}`), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[presenter.ErrorResponse](t, resp).Message, "personalInfo.email")

	resp = s.do(t, http.MethodPost, "/api/v1/orders", []byte(`{`), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, 0, s.store.Len())
}

func TestUnknownOrder(t *testing.T) {
	s := newTestServer(t, true)
	for _, path := range []string{"/api/v1/orders/ord_missing", "/api/v1/orders/ord_missing/download"} {
		resp := s.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	resp := s.do(t, http.MethodPost, "/api/v1/orders/ord_missing/checkout", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCheckout_NoProvider(t *testing.T) {
	s := newTestServer(t, false)
	view := s.createOrder(t, "classic")
	resp := s.do(t, http.MethodPost, "/api/v1/orders/"+view.OrderID+"/checkout", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWebhook_Rejections(t *testing.T) {
	s := newTestServer(t, true)

	body := []byte(`{"id":"evt","type":"checkout.completed","data":{"orderId":"ord_x"}}`)
	resp := s.do(t, http.MethodPost, "/api/v1/webhooks/payment", body, map[string]string{payment.SignatureHeader: "deadbeef"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/v1/webhooks/payment", body, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	garbage := []byte(`not json`)
	resp = s.do(t, http.MethodPost, "/api/v1/webhooks/payment", garbage, map[string]string{payment.SignatureHeader: payment.Sign(garbage, secret)})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebhook_IgnoredDeliveries(t *testing.T) {
	s := newTestServer(t, true)

	body, headers := signedEvent(t, payment.Event{ID: "evt_2", Type: "checkout.expired", Data: payment.EventData{OrderID: "ord_x"}})
	resp := s.do(t, http.MethodPost, "/api/v1/webhooks/payment", body, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "event_type", decode[handlers.WebhookAck](t, resp).Ignored)

	body, headers = signedEvent(t, payment.Event{ID: "evt_3", Type: payment.EventCheckoutCompleted, Data: payment.EventData{OrderID: "ord_unknown", SessionID: "cs_1"}})
	resp = s.do(t, http.MethodPost, "/api/v1/webhooks/payment", body, headers)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "unknown_order", decode[handlers.WebhookAck](t, resp).Ignored)
	assert.Equal(t, 0, s.store.Len())
}

func TestObjectiveDraft(t *testing.T) {
	s := newTestServer(t, true)
	resp := s.do(t, http.MethodPost, "/api/v1/objective/draft", []byte(`{"skills":["Go"]}`), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decode[resume.DraftResult](t, resp)
	assert.Equal(t, "Atuar com dados.", res.Objective)
	assert.Equal(t, "stub", res.Model)

	resp = s.do(t, http.MethodPost, "/api/v1/objective/draft", []byte(`{}`), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, true)
	resp := s.do(t, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = s.do(t, http.MethodGet, "/api/v1/ready", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, s.scrape(t), `resumepay_http_request_duration_seconds_count{method="GET",route="/api/v1/health",status="200"} 1`)
}
