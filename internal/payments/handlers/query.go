package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paymentservice/internal/payments"
)

func (h *PaymentHandler) NotCancelled(c echo.Context) error {
	var q *payments.NotCancelledQuery
	if err := c.Bind(&q); err != nil {
		return err
	}

	ids, err := h.service.NotCancelledPaymentIDs(c.Request().Context(), q)
	if err != nil {
		h.logger.Error("Failed to query active payments", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, ids)
}

func (h *PaymentHandler) CancellationDetails(c echo.Context) error {
	id, err := bindID(c)
	if err != nil {
		return err
	}

	info, err := h.service.CancellationDetails(c.Request().Context(), id)
	if errors.Is(err, payments.ErrPaymentNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, payments.MsgPaymentDoesNotExist)
	}
	if err != nil {
		h.logger.Error("Failed to query cancellation details", zap.Int64("payment_id", id), zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, info)
}
