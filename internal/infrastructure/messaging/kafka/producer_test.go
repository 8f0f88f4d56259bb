package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juberis/reqtrack/internal/application/holidays"
	"github.com/juberis/reqtrack/internal/infrastructure/monitoring/logging"
)

type fakeWriter struct {
	messages []kafkago.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishHolidayChanged(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, logging.NewNopLogger())
	producer.nowFn = func() time.Time {
		return time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC)
	}

	err := producer.PublishHolidayChanged(context.Background(), holidays.HolidayChangedEvent{
		Action:    holidays.ActionCreated,
		HolidayID: "h-1",
		Name:      "Bastille Day",
		Date:      "2025-07-14",
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	assert.Equal(t, TopicHolidayChanged, msg.Topic)
	assert.Equal(t, []byte("h-1"), msg.Key)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, TopicHolidayChanged, envelope.EventType)
	assert.Equal(t, EventSource, envelope.Source)
	assert.NotEmpty(t, envelope.EventID)

	var payload holidays.HolidayChangedEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "2025-07-14", payload.Date)

	assert.Equal(t, int64(1), producer.Sent())
}

func TestPublishAfterCloseFails(t *testing.T) {
	writer := &fakeWriter{}
	producer := NewProducerWithWriter(writer, logging.NewNopLogger())
	require.NoError(t, producer.Close())
	assert.True(t, writer.closed)

	err := producer.PublishHolidayChanged(context.Background(), holidays.HolidayChangedEvent{HolidayID: "h-1"})
	assert.Error(t, err)
}

func TestPublishWriteFailure(t *testing.T) {
	writer := &fakeWriter{err: context.DeadlineExceeded}
	producer := NewProducerWithWriter(writer, logging.NewNopLogger())

	err := producer.PublishHolidayChanged(context.Background(), holidays.HolidayChangedEvent{HolidayID: "h-1"})
	assert.Error(t, err)
	assert.Equal(t, int64(1), producer.Failed())
}
