// Package messaging holds event publishers that need no external bus.
package messaging

import (
	"context"

	"hippo/application/ports"
	"hippo/domain/events"

	"go.uber.org/zap"
)

// LogPublisher writes events to the log instead of a bus
type LogPublisher struct {
	logger *zap.Logger
}

// NewLogPublisher creates a publisher used when no event bus is configured
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	p.logger.Debug("Domain event",
		zap.String("eventType", event.GetEventType()),
		zap.String("aggregateID", event.GetAggregateID()),
		zap.Time("timestamp", event.GetTimestamp()),
	)
	return nil
}

func (p *LogPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	for _, event := range domainEvents {
		_ = p.Publish(ctx, event)
	}
	return nil
}

var _ ports.EventPublisher = (*LogPublisher)(nil)
