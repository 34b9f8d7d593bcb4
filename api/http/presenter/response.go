package presenter

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/resumepay/pkg/order"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

// OrderView is what clients see of an order. Resume data is only ever
// released through the download endpoint.
type OrderView struct {
	OrderID          string    `json:"orderId"`
	Price            string    `json:"price"`
	Currency         string    `json:"currency"`
	Paid             bool      `json:"paid"`
	PaymentStatus    string    `json:"paymentStatus"`
	PaymentProvider  string    `json:"paymentProvider,omitempty"`
	PaymentSessionID string    `json:"paymentSessionId,omitempty"`
	Template         string    `json:"template"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func Order(o order.Order) OrderView {
	return OrderView{
		OrderID:          o.ID,
		Price:            o.Price.StringFixed(2),
		Currency:         o.Currency,
		Paid:             o.Paid,
		PaymentStatus:    o.PaymentStatus,
		PaymentProvider:  o.PaymentProvider,
		PaymentSessionID: o.PaymentSessionID,
		Template:         o.Template.String(),
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}
