package geo

import (
	"context"

	"go.uber.org/zap"
)

const (
	ContextCreation     = "<Payment creation>"
	ContextCancellation = "<Payment cancellation>"
)

type Submitter interface {
	Submit(task func(ctx context.Context)) bool
}

type CountryResolver interface {
	ResolveCountry(ctx context.Context, ip string) string
}

// Tracker logs the country of a client action in the background.
type Tracker struct {
	resolver CountryResolver
	pool     Submitter
	logger   *zap.Logger
}

func NewTracker(resolver CountryResolver, pool Submitter, logger *zap.Logger) *Tracker {
	return &Tracker{resolver: resolver, pool: pool, logger: logger}
}

func (t *Tracker) Track(ip, action string) {
	t.pool.Submit(func(ctx context.Context) {
		country := t.resolver.ResolveCountry(ctx, ip)
		t.logger.Info("Country resolved for client action",
			zap.String("ip", ip),
			zap.String("country", country),
			zap.String("action", action),
		)
	})
}
