package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/artem13815/resumepay/api/http/presenter"
	"github.com/artem13815/resumepay/pkg/composer"
	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/render/pdf"
	"github.com/artem13815/resumepay/pkg/resume"
)

// OrderHandler exposes the order lifecycle: creation, checkout and the paid download.
type OrderHandler struct {
	svc  order.UseCase
	urls order.CheckoutURLs
	log  *zap.Logger
}

func NewOrderHandler(svc order.UseCase, urls order.CheckoutURLs, log *zap.Logger) *OrderHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderHandler{svc: svc, urls: urls, log: log.Named("http.orders")}
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Data     resume.ResumeData `json:"data"`
	Template string            `json:"template" example:"classic"`
}

// Create registers a new unpaid order.
// @Summary Создать заказ
// @Description Сохраняет данные резюме и выбранный шаблон. Заказ создаётся неоплаченным.
// @Tags    Заказы
// @Accept  json
// @Produce json
// @Param   body body CreateOrderRequest true "Данные резюме и шаблон"
// @Success 201 {object} presenter.OrderView
// @Failure 400 {object} presenter.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON body")
	}
	o, err := h.svc.Create(c.UserContext(), order.CreateInput{Data: req.Data, Template: req.Template})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusCreated, presenter.Order(o))
}

// Get returns order status without the resume data.
// @Summary Статус заказа
// @Tags    Заказы
// @Produce json
// @Param   id path string true "ID заказа"
// @Success 200 {object} presenter.OrderView
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, presenter.Order(o))
}

// Checkout opens a hosted checkout session for an unpaid order.
// @Summary Начать оплату
// @Tags    Заказы
// @Produce json
// @Param   id path string true "ID заказа"
// @Success 200 {object} payment.Session
// @Failure 404 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse "Заказ уже оплачен"
// @Failure 502 {object} presenter.ErrorResponse "Ошибка платёжного провайдера"
// @Failure 503 {object} presenter.ErrorResponse "Оплата не настроена"
// @Router  /orders/{id}/checkout [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	s, err := h.svc.Checkout(c.UserContext(), c.Params("id"), h.urls)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, s)
}

// Download renders the paid resume as PDF.
// @Summary Скачать резюме
// @Description Доступно только после подтверждения оплаты.
// @Tags    Заказы
// @Produce application/pdf
// @Param   id path string true "ID заказа"
// @Success 200 {file} file
// @Failure 402 {object} presenter.ErrorResponse "Заказ не оплачен"
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /orders/{id}/download [get]
func (h *OrderHandler) Download(c *fiber.Ctx) error {
	id := c.Params("id")
	data, tmpl, err := h.svc.AuthorizeDownload(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	instrs, err := composer.Compose(data, tmpl)
	if err != nil {
		return writeError(c, h.log, err)
	}
	var buf bytes.Buffer
	if err := pdf.Render(&buf, instrs, pdf.Meta{Title: "Currículo", Author: data.PersonalInfo.Name}); err != nil {
		return writeError(c, h.log, fmt.Errorf("render order %s: %w", id, err))
	}
	h.log.Info("resume downloaded", zap.String("order_id", id), zap.String("template", tmpl.String()), zap.Int("bytes", buf.Len()))

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="curriculo-%s.pdf"`, id))
	return c.Status(http.StatusOK).Send(buf.Bytes())
}
