package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"paymentservice/internal/geo"
	"paymentservice/internal/payments"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, req *payments.CreatePaymentRequest) (*payments.CreatePaymentResponse, error)
	CancelPayment(ctx context.Context, id int64) (*payments.CancelPaymentResponse, error)
	ListPayments(ctx context.Context) ([]payments.PaymentDTO, error)
	NotCancelledPaymentIDs(ctx context.Context, q *payments.NotCancelledQuery) ([]int64, error)
	CancellationDetails(ctx context.Context, id int64) (*payments.CancellationInfo, error)
}

// GeoTracker records the client's country for an action without blocking.
type GeoTracker interface {
	Track(ip, action string)
}

type PaymentHandler struct {
	service PaymentService
	tracker GeoTracker
	logger  *zap.Logger
}

func NewPaymentHandler(service PaymentService, tracker GeoTracker, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		tracker: tracker,
		logger:  logger,
	}
}

func (h *PaymentHandler) List(c echo.Context) error {
	result, err := h.service.ListPayments(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to list payments", zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) Create(c echo.Context) error {
	h.tracker.Track(c.RealIP(), geo.ContextCreation)

	// An empty or null body leaves req nil.
	var req *payments.CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	resp, err := h.service.CreatePayment(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Failed to create payment", zap.Error(err))
		return err
	}

	if len(resp.ValidationErrors) > 0 {
		return c.JSON(http.StatusBadRequest, resp)
	}
	return c.JSON(http.StatusCreated, resp)
}
