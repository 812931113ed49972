package notify

import (
	"context"
	"errors"
	"fmt"

	"paymentservice/internal/payments"
)

var ErrUnsupportedType = errors.New("no notification service for payment type")

type Sender interface {
	Send(ctx context.Context) payments.NotificationStatus
}

// Dispatcher routes TYPE1 payments to service one and TYPE2 payments to
// service two. Other types have no notification path.
type Dispatcher struct {
	serviceOne Sender
	serviceTwo Sender
}

func NewDispatcher(serviceOne, serviceTwo Sender) *Dispatcher {
	return &Dispatcher{serviceOne: serviceOne, serviceTwo: serviceTwo}
}

func (d *Dispatcher) Notify(ctx context.Context, p *payments.Payment) (payments.NotificationStatus, error) {
	switch p.Type {
	case payments.Type1:
		return d.serviceOne.Send(ctx), nil
	case payments.Type2:
		return d.serviceTwo.Send(ctx), nil
	default:
		return payments.NotificationUnset, fmt.Errorf("%w: %s", ErrUnsupportedType, p.Type)
	}
}
