package outbox

import (
	"context"

	"github.com/m04kA/SMC-BookingEngine/internal/domain"
)

// LogSink writes events to the service log; used when no broker or webhook is configured
type LogSink struct {
	logger Logger
}

func NewLogSink(logger Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Publish(_ context.Context, event *domain.OutboxEvent) error {
	s.logger.Info("outbox event %s type=%s %s=%d payload=%s",
		event.EventID, event.EventType, event.AggregateType, event.AggregateID, string(event.Payload))
	return nil
}
