package messaging

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/finsimulator/internal/projection/domain"
)

type sentMessage struct {
	topic string
	key   string
	value calculationEventMessage
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	started chan struct{}
	gate    chan struct{}
	closed  bool
}

func newFakeSender() *fakeSender {
	return &fakeSender{started: make(chan struct{}, 16)}
}

func (s *fakeSender) SendMessage(_ context.Context, topic, key string, value any) error {
	s.started <- struct{}{}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{topic: topic, key: key, value: value.(calculationEventMessage)})
	return nil
}

func (s *fakeSender) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func event(id, product string) domain.CalculationCompletedEvent {
	return domain.CalculationCompletedEvent{
		EventID:    id,
		RequestID:  "req-" + id,
		Product:    product,
		Outcome:    "success",
		Samples:    1000,
		DurationMs: 12,
		OccurredOn: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestKafkaEventPublisher_DeliversAndDrainsOnClose(t *testing.T) {
	sender := newFakeSender()
	p := NewKafkaEventPublisher(sender, "finsimulator.calculations", 0)

	require.NoError(t, p.PublishCalculationCompleted(context.Background(), event("1", "montecarlo")))
	require.NoError(t, p.PublishCalculationCompleted(context.Background(), event("2", "mortgage")))
	require.NoError(t, p.Close(context.Background()))

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.sent, 2)
	assert.True(t, sender.closed)

	first := sender.sent[0]
	assert.Equal(t, "finsimulator.calculations", first.topic)
	assert.Equal(t, "montecarlo", first.key)
	assert.Equal(t, "CalculationCompletedEvent", first.value.EventType)
	assert.Equal(t, "req-1", first.value.RequestID)
	assert.Equal(t, 1000, first.value.Samples)
	assert.Equal(t, "mortgage", sender.sent[1].key)
}

func TestKafkaEventPublisher_BusyWhenBufferFull(t *testing.T) {
	sender := newFakeSender()
	sender.gate = make(chan struct{})
	p := NewKafkaEventPublisher(sender, "topic", 1)
	ctx := context.Background()

	require.NoError(t, p.PublishCalculationCompleted(ctx, event("1", "goal")))
	<-sender.started
	require.NoError(t, p.PublishCalculationCompleted(ctx, event("2", "goal")))
	assert.ErrorIs(t, p.PublishCalculationCompleted(ctx, event("3", "goal")), ErrPublisherBusy)

	close(sender.gate)
	require.NoError(t, p.Close(ctx))
	assert.ErrorIs(t, p.PublishCalculationCompleted(ctx, event("4", "goal")), ErrPublisherClosed)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	assert.Len(t, sender.sent, 2)
}

func TestKafkaEventPublisher_CloseHonoursContext(t *testing.T) {
	sender := newFakeSender()
	sender.gate = make(chan struct{})
	defer close(sender.gate)
	p := NewKafkaEventPublisher(sender, "topic", 4)

	require.NoError(t, p.PublishCalculationCompleted(context.Background(), event("1", "credit")))
	<-sender.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)
}

func TestNopEventPublisher(t *testing.T) {
	var p NopEventPublisher
	assert.NoError(t, p.PublishCalculationCompleted(context.Background(), event("1", "savings")))
	assert.NoError(t, p.Close(context.Background()))
}
