package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/artem13815/resumepay/api/http/presenter"
	"github.com/artem13815/resumepay/pkg/payment/mock"
)

// MockCheckoutHandler stands in for the provider's hosted page when
// PAYMENT_PROVIDER=mock. Completing a session feeds the same confirmation
// path a signed webhook would.
type MockCheckoutHandler struct {
	gw       *mock.Gateway
	webhooks *WebhookHandler
	log      *zap.Logger
}

func NewMockCheckoutHandler(gw *mock.Gateway, webhooks *WebhookHandler, log *zap.Logger) *MockCheckoutHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MockCheckoutHandler{gw: gw, webhooks: webhooks, log: log.Named("http.mockcheckout")}
}

// Complete marks the session as paid.
// @Summary Завершить тестовую оплату
// @Tags    Оплата
// @Produce json
// @Param   session path string true "ID сессии"
// @Success 200 {object} WebhookAck
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /mock-checkout/{session}/complete [get]
func (h *MockCheckoutHandler) Complete(c *fiber.Ctx) error {
	ev, err := h.gw.Complete(c.Params("session"))
	if errors.Is(err, mock.ErrUnknownSession) {
		return presenter.Error(c, http.StatusNotFound, err.Error())
	}
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "internal error")
	}
	h.log.Info("mock checkout completed", zap.String("order_id", ev.Data.OrderID), zap.String("session_id", ev.Data.SessionID))
	return h.webhooks.confirm(c, ev)
}
