package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/artem13815/resumepay/api/http/presenter"
	"github.com/artem13815/resumepay/pkg/order"
	"github.com/artem13815/resumepay/pkg/payment"
	"github.com/artem13815/resumepay/pkg/resume"
)

// statusFor maps domain errors to HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case order.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrPaymentRequired):
		return http.StatusPaymentRequired
	case errors.Is(err, order.ErrAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, payment.ErrProvider):
		return http.StatusBadGateway
	case errors.Is(err, order.ErrCheckoutUnavailable), errors.Is(err, resume.ErrDraftUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, resume.ErrNothingToDraft):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Error(err),
		)
		if status == http.StatusInternalServerError {
			return presenter.Error(c, status, "internal error")
		}
	}
	return presenter.Error(c, status, err.Error())
}
