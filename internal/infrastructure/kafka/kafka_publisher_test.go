package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LavaJover/shvark-procurement-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestPublishOrderEvent(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisherWithWriter(w, time.Second)

	event := domain.OrderEvent{
		EventID:    "evt-1",
		Type:       domain.EventPaymentApplied,
		OrderID:    42,
		Status:     domain.StatusApproved,
		TotalCost:  decimal.NewFromInt(224700),
		Paid:       decimal.NewFromInt(100000),
		Remaining:  decimal.NewFromInt(124700),
		Amount:     decimal.NewFromInt(100000),
		OccurredAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, p.PublishOrderEvent(context.Background(), event))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "42", string(w.msgs[0].Key))
	assert.Equal(t, "payment_applied", string(w.msgs[0].Headers[0].Value))

	var decoded domain.OrderEvent
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.True(t, decoded.Remaining.Equal(event.Remaining))
	assert.Equal(t, event.Status, decoded.Status)
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{Topic: "t"})
	assert.Error(t, err)
}
