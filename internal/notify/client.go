package notify

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"paymentservice/internal/payments"
)

// Client calls one external notification service with a GET on
// baseURL + recipient.
type Client struct {
	name       string
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(name, baseURL, recipient string, httpClient *http.Client, logger *zap.Logger) *Client {
	return &Client{
		name:       name,
		url:        baseURL + recipient,
		httpClient: httpClient,
		logger:     logger.With(zap.String("notification_service", name)),
	}
}

// Send maps any 2xx response to success. Every other outcome, transport
// errors and timeouts included, is a failure.
func (c *Client) Send(ctx context.Context) payments.NotificationStatus {
	tracer := otel.Tracer("notification-client")
	ctx, span := tracer.Start(ctx, "send-notification", trace.WithAttributes(
		attribute.String("service.name", c.name),
		attribute.String("service.url", c.url),
	))
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create HTTP request")
		c.logger.Error("Unable to create notification request", zap.Error(err))
		return payments.NotificationFailure
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error sending HTTP request")
		c.logger.Warn("Notification request failed", zap.Error(err))
		return payments.NotificationFailure
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Notification service responded with an error", zap.Int("status_code", resp.StatusCode))
		return payments.NotificationFailure
	}

	span.SetStatus(codes.Ok, "Notification sent")
	return payments.NotificationSuccess
}
