package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/artem13815/resumepay/api/http/presenter"
	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/payment"
)

// WebhookAck is returned for every accepted delivery, including ignored ones,
// so the provider stops retrying.
type WebhookAck struct {
	Received bool   `json:"received"`
	Ignored  string `json:"ignored,omitempty"`
}

type WebhookHandler struct {
	svc    order.UseCase
	secret string
	log    *zap.Logger
}

// NewWebhookHandler verifies deliveries with secret; an empty secret accepts unsigned bodies.
func NewWebhookHandler(svc order.UseCase, secret string, log *zap.Logger) *WebhookHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &WebhookHandler{svc: svc, secret: secret, log: log.Named("http.webhook")}
}

// Payment receives payment provider events.
// @Summary Webhook платёжного провайдера
// @Tags    Оплата
// @Accept  json
// @Produce json
// @Param   X-Signature header string false "HMAC-SHA256 тела запроса (hex)"
// @Param   body body payment.Event true "Событие"
// @Success 200 {object} WebhookAck
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /webhooks/payment [post]
func (h *WebhookHandler) Payment(c *fiber.Ctx) error {
	body := c.Body()
	if err := payment.VerifySignature(body, c.Get(payment.SignatureHeader), h.secret); err != nil {
		h.log.Warn("webhook rejected", zap.Error(err))
		return presenter.Error(c, http.StatusUnauthorized, err.Error())
	}
	ev, err := payment.ParseEvent(body)
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if !ev.Confirms() {
		h.log.Debug("webhook event skipped", zap.String("event_id", ev.ID), zap.String("type", ev.Type))
		return presenter.JSON(c, http.StatusOK, WebhookAck{Received: true, Ignored: "event_type"})
	}
	return h.confirm(c, ev)
}

func (h *WebhookHandler) confirm(c *fiber.Ctx, ev payment.Event) error {
	err := h.svc.RecordPaymentConfirmation(c.UserContext(), confirmationFrom(ev))
	if err == nil {
		return presenter.JSON(c, http.StatusOK, WebhookAck{Received: true})
	}
	var ignored *order.ConfirmationIgnored
	if errors.As(err, &ignored) {
		return presenter.JSON(c, http.StatusOK, WebhookAck{Received: true, Ignored: string(ignored.Reason)})
	}
	return writeError(c, h.log, err)
}

func confirmationFrom(ev payment.Event) order.Confirmation {
	return order.Confirmation{
		OrderID:   ev.Data.OrderID,
		Status:    ev.Data.Status,
		Provider:  ev.Data.Provider,
		SessionID: ev.Data.SessionID,
	}
}
