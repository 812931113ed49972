package payments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"paymentservice/internal/metrics"
)

// Notifier delivers the post-creation notification for a payment. An error
// means no notification path exists for the payment; an unreachable
// upstream is reported as NotificationFailure instead.
type Notifier interface {
	Notify(ctx context.Context, p *Payment) (NotificationStatus, error)
}

// Submitter schedules background work without blocking the caller.
type Submitter interface {
	Submit(task func(ctx context.Context)) bool
}

type EventPublisher interface {
	PaymentCreated(ctx context.Context, p *Payment) error
	PaymentCancelled(ctx context.Context, p *Payment) error
}

type Service struct {
	store     Store
	factory   *Factory
	engine    *CancellationEngine
	notifier  Notifier
	pool      Submitter
	publisher EventPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	store Store,
	policy *Policy,
	notifier Notifier,
	pool Submitter,
	publisher EventPublisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:     store,
		factory:   NewFactory(NewValidator(policy)),
		engine:    NewCancellationEngine(policy),
		notifier:  notifier,
		pool:      pool,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
	}
}

// CreatePayment validates and persists a new payment, then schedules its
// notification. A rejected request yields a response carrying exactly one
// validation error and a nil error.
func (s *Service) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	tracer := otel.Tracer("payment-service")
	ctx, span := tracer.Start(ctx, "create-payment")
	defer span.End()

	if req == nil {
		return s.rejectCreate(span, MsgCreationRequestNull), nil
	}
	span.SetAttributes(attribute.String("payment.type", req.Type))

	if !IsKnownPaymentType(req.Type) {
		return s.rejectCreate(span, MsgUnsupportedType+req.Type), nil
	}

	p, err := s.factory.NewPayment(req)
	if err != nil {
		if msg, ok := IsValidationError(err); ok {
			return s.rejectCreate(span, msg), nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to build payment")
		return nil, err
	}

	p.CreatedAt = s.now()
	if err := s.store.Create(ctx, p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist payment")
		return nil, err
	}
	span.SetAttributes(attribute.Int64("payment.id", p.ID))

	s.metrics.PaymentCreated(string(p.Type))
	s.logger.Info("Payment created",
		zap.Int64("payment_id", p.ID),
		zap.String("payment_type", string(p.Type)),
		zap.String("amount", p.Money.Amount.StringFixed(2)),
		zap.String("currency", p.Money.Currency),
	)

	if err := s.publisher.PaymentCreated(ctx, p); err != nil {
		s.logger.Warn("Failed to publish payment created event", zap.Int64("payment_id", p.ID), zap.Error(err))
	}

	s.scheduleNotification(ctx, p)

	dto := p.DTO()
	return &CreatePaymentResponse{ValidationErrors: []string{}, Payment: &dto}, nil
}

func (s *Service) rejectCreate(span trace.Span, msg string) *CreatePaymentResponse {
	span.AddEvent("validation-failed", trace.WithAttributes(attribute.String("reason", msg)))
	s.metrics.ValidationFailed("create")
	return &CreatePaymentResponse{ValidationErrors: []string{msg}}
}

// scheduleNotification hands the notification callout to the pool. The task
// runs detached from the request context but keeps its trace.
func (s *Service) scheduleNotification(ctx context.Context, p *Payment) {
	snapshot := p.clone()
	spanCtx := trace.SpanContextFromContext(ctx)

	s.pool.Submit(func(ctx context.Context) {
		ctx = trace.ContextWithSpanContext(ctx, spanCtx)
		s.notify(ctx, snapshot)
	})
}

func (s *Service) notify(ctx context.Context, p *Payment) {
	logger := s.logger.With(zap.Int64("payment_id", p.ID), zap.String("payment_type", string(p.Type)))

	status, err := s.notifier.Notify(ctx, p)
	if err != nil {
		logger.Warn(MsgFailedToSendNotification+string(p.Type), zap.Error(err))
		return
	}
	s.metrics.NotificationSent(string(p.Type), string(status))

	if err := s.store.UpdateNotificationStatus(ctx, p.ID, status); err != nil {
		logger.Error("Failed to store notification status", zap.String("status", string(status)), zap.Error(err))
		return
	}
	logger.Debug("Notification status stored", zap.String("status", string(status)))
}

// CancelPayment cancels the payment with the given id as of now. A missing
// payment yields a response with the does-not-exist message together with
// ErrPaymentNotFound.
func (s *Service) CancelPayment(ctx context.Context, id int64) (*CancelPaymentResponse, error) {
	tracer := otel.Tracer("payment-service")
	ctx, span := tracer.Start(ctx, "cancel-payment", trace.WithAttributes(
		attribute.Int64("payment.id", id),
	))
	defer span.End()

	p, err := s.store.FindByID(ctx, id)
	if errors.Is(err, ErrPaymentNotFound) {
		span.AddEvent("payment-not-found")
		s.metrics.ValidationFailed("cancel")
		return &CancelPaymentResponse{ValidationErrors: []string{MsgPaymentDoesNotExist}}, ErrPaymentNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load payment")
		return nil, err
	}

	if err := s.engine.Prepare(p, s.now()); err != nil {
		if msg, ok := IsValidationError(err); ok {
			return s.rejectCancel(span, msg), nil
		}
		return nil, err
	}

	err = s.store.MarkCancelled(ctx, p)
	if errors.Is(err, ErrAlreadyCancelled) {
		return s.rejectCancel(span, MsgPaymentWithID+strconv.FormatInt(id, 10)+MsgIsAlreadyCanceled), nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist cancellation")
		return nil, err
	}

	s.metrics.PaymentCancelled(string(p.Type))
	if err := s.publisher.PaymentCancelled(ctx, p); err != nil {
		s.logger.Warn("Failed to publish payment cancelled event", zap.Int64("payment_id", p.ID), zap.Error(err))
	}

	fee := *p.CancellationFee
	dto := p.DTO()
	message := fmt.Sprintf("%s%d%s%s %s", MsgPaymentWithID, id, MsgWasCancelledWithFee, fee.Amount.StringFixed(2), fee.Currency)
	s.logger.Info(message, zap.Int64("payment_id", id), zap.String("payment_type", string(p.Type)))

	return &CancelPaymentResponse{
		ValidationErrors: []string{},
		Message:          message,
		Payment:          &dto,
		CancellationFee:  &fee,
	}, nil
}

func (s *Service) rejectCancel(span trace.Span, msg string) *CancelPaymentResponse {
	span.AddEvent("validation-failed", trace.WithAttributes(attribute.String("reason", msg)))
	s.metrics.ValidationFailed("cancel")
	return &CancelPaymentResponse{ValidationErrors: []string{msg}}
}

func (s *Service) ListPayments(ctx context.Context) ([]PaymentDTO, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]PaymentDTO, 0, len(all))
	for _, p := range all {
		result = append(result, p.DTO())
	}
	return result, nil
}

// NotCancelledPaymentIDs lists active payment ids. Bounds apply only when the
// query's Filter flag is set.
func (s *Service) NotCancelledPaymentIDs(ctx context.Context, q *NotCancelledQuery) ([]int64, error) {
	if q == nil || !q.Filter {
		return s.store.NotCancelledIDs(ctx, nil, nil)
	}
	return s.store.NotCancelledIDs(ctx, q.MinAmount, q.MaxAmount)
}

func (s *Service) CancellationDetails(ctx context.Context, id int64) (*CancellationInfo, error) {
	return s.store.CancellationInfo(ctx, id)
}
