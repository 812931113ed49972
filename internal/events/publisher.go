package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"paymentservice/internal/payments"
)

const (
	TypePaymentCreated   = "payment.created"
	TypePaymentCancelled = "payment.cancelled"
)

// PaymentEvent is the message body published for payment lifecycle changes.
type PaymentEvent struct {
	EventType       string          `json:"event_type"`
	PaymentID       int64           `json:"payment_id"`
	PaymentType     string          `json:"payment_type"`
	Money           payments.Money  `json:"money"`
	CancellationFee *payments.Money `json:"cancellation_fee,omitempty"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

func newPaymentEvent(eventType string, p *payments.Payment, at time.Time) PaymentEvent {
	return PaymentEvent{
		EventType:       eventType,
		PaymentID:       p.ID,
		PaymentType:     string(p.Type),
		Money:           p.Money,
		CancellationFee: p.CancellationFee,
		OccurredAt:      at,
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes payment events asynchronously, one writer per topic.
type KafkaPublisher struct {
	created   messageWriter
	cancelled messageWriter
	logger    *zap.Logger
}

func NewKafkaPublisher(brokers []string, topicCreated, topicCancelled string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		created:   newWriter(brokers, topicCreated, logger),
		cancelled: newWriter(brokers, topicCancelled, logger),
		logger:    logger,
	}
}

func newWriter(brokers []string, topic string, logger *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to deliver payment events",
					zap.String("topic", topic),
					zap.Int("count", len(messages)),
					zap.Error(err),
				)
			}
		},
	}
}

func (p *KafkaPublisher) PaymentCreated(ctx context.Context, payment *payments.Payment) error {
	return p.publish(ctx, p.created, newPaymentEvent(TypePaymentCreated, payment, payment.CreatedAt))
}

func (p *KafkaPublisher) PaymentCancelled(ctx context.Context, payment *payments.Payment) error {
	at := time.Now()
	if payment.CancellationTime != nil {
		at = *payment.CancellationTime
	}
	return p.publish(ctx, p.cancelled, newPaymentEvent(TypePaymentCancelled, payment, at))
}

func (p *KafkaPublisher) publish(ctx context.Context, w messageWriter, event PaymentEvent) error {
	value, err := sonic.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.PaymentID, 10)),
		Value: value,
	}
	if err := w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write %s event: %w", event.EventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return errors.Join(p.created.Close(), p.cancelled.Close())
}

// NoopPublisher discards events. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PaymentCreated(context.Context, *payments.Payment) error   { return nil }
func (NoopPublisher) PaymentCancelled(context.Context, *payments.Payment) error { return nil }
func (NoopPublisher) Close() error                                              { return nil }
