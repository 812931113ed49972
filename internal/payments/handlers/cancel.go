package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paymentservice/internal/geo"
	"paymentservice/internal/payments"
)

func (h *PaymentHandler) Cancel(c echo.Context) error {
	h.tracker.Track(c.RealIP(), geo.ContextCancellation)

	id, err := bindID(c)
	if err != nil {
		return err
	}

	resp, err := h.service.CancelPayment(c.Request().Context(), id)
	if errors.Is(err, payments.ErrPaymentNotFound) {
		return c.JSON(http.StatusNotFound, resp)
	}
	if err != nil {
		h.logger.Error("Failed to cancel payment", zap.Int64("payment_id", id), zap.Error(err))
		return err
	}

	if len(resp.ValidationErrors) > 0 {
		return c.JSON(http.StatusBadRequest, resp)
	}
	return c.JSON(http.StatusOK, resp)
}

// bindID decodes a request body holding a bare JSON number.
func bindID(c echo.Context) (int64, error) {
	var id int64
	if err := c.Echo().JSONSerializer.Deserialize(c, &id); err != nil {
		return 0, err
	}
	return id, nil
}
