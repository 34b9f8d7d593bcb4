package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/artem13815/resumepay/pkg/resume"
)

// StatusPending is the payment status of every freshly created order.
const StatusPending = "pending"

// Order is a paid-download request for one document.
// Data, Price and Currency never change after creation; Paid only goes false -> true.
type Order struct {
	ID               string            `json:"orderId"`
	Price            decimal.Decimal   `json:"price"`
	Currency         string            `json:"currency"`
	Paid             bool              `json:"paid"`
	PaymentStatus    string            `json:"paymentStatus"`
	PaymentProvider  string            `json:"paymentProvider,omitempty"`
	PaymentSessionID string            `json:"paymentSessionId,omitempty"`
	Template         resume.Template   `json:"template"`
	Data             resume.ResumeData `json:"data"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// PriceMinorUnits returns the price in the currency's minor unit (cents).
func (o Order) PriceMinorUnits() int64 {
	return o.Price.Shift(2).Round(0).IntPart()
}

// Confirmation is a payment provider's statement that an order was paid.
type Confirmation struct {
	OrderID   string
	Status    string
	Provider  string
	SessionID string
}

// CreateInput carries what a customer submits to open an order.
// Nil Price and empty Currency fall back to the service defaults.
type CreateInput struct {
	Data     resume.ResumeData
	Template string
	Price    *decimal.Decimal
	Currency string
}

// CheckoutURLs are the pages the payment provider redirects back to.
type CheckoutURLs struct {
	Success string
	Cancel  string
}
