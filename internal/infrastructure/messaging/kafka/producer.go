// Package kafka publishes service events to the message bus.
package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/juberis/reqtrack/internal/application/holidays"
	"github.com/juberis/reqtrack/internal/config"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
	"github.com/juberis/reqtrack/pkg/errors"
)

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes event envelopes.
type Producer struct {
	writer WriterInterface
	logger logging.Logger
	closed atomic.Bool
	sent   atomic.Int64
	failed atomic.Int64
	nowFn  func() time.Time
}

var _ holidays.EventPublisher = (*Producer)(nil)

// NewProducer builds a producer from configuration.
func NewProducer(cfg config.KafkaConfig, log logging.Logger) (*Producer, error) {
	if !cfg.Enabled() {
		return nil, errors.InvalidInput("kafka brokers are required")
	}

	var acks kafka.RequiredAcks
	switch cfg.Acks {
	case "none":
		acks = kafka.RequireNone
	case "one":
		acks = kafka.RequireOne
	default:
		acks = kafka.RequireAll
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: acks,
	}
	return NewProducerWithWriter(writer, log), nil
}

// NewProducerWithWriter wraps an existing writer, for tests.
func NewProducerWithWriter(writer WriterInterface, log logging.Logger) *Producer {
	return &Producer{
		writer: writer,
		logger: log.Named("kafka-producer"),
		nowFn:  time.Now,
	}
}

// PublishHolidayChanged emits a holiday.changed envelope keyed by the
// holiday id so per-holiday events stay ordered.
func (p *Producer) PublishHolidayChanged(ctx context.Context, event holidays.HolidayChangedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "holiday event not serializable")
	}
	envelope := EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     TopicHolidayChanged,
		Source:        EventSource,
		Timestamp:     p.nowFn(),
		SchemaVersion: SchemaVersion,
		Payload:       payload,
	}
	return p.publish(ctx, TopicHolidayChanged, []byte(event.HolidayID), envelope)
}

func (p *Producer) publish(ctx context.Context, topic string, key []byte, envelope EventEnvelope) error {
	if p.closed.Load() {
		return errors.New(errors.ErrCodeInternal, "producer closed")
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "envelope not serializable")
	}

	start := p.nowFn()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
		Time:  envelope.Timestamp,
	})
	if err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodeInternal, "publish failed")
	}
	p.sent.Add(1)
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.Int64("latency_ms", time.Since(start).Milliseconds()))
	return nil
}

// Sent reports the number of successfully published events.
func (p *Producer) Sent() int64 { return p.sent.Load() }

// Failed reports the number of failed publish attempts.
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close shuts the producer down.  Safe to call more than once.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := p.writer.Close()
	p.logger.Info("kafka producer closed", logging.Int64("sent", p.sent.Load()))
	return err
}
