// Package messaging 测算完成事件的投递实现
package messaging

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wyfcoding/finsimulator/internal/projection/domain"
	"github.com/wyfcoding/finsimulator/pkg/logger"
)

// ErrPublisherBusy 缓冲区已满，事件被丢弃
var ErrPublisherBusy = errors.New("event publisher buffer is full")

// ErrPublisherClosed 发布者已关闭
var ErrPublisherClosed = errors.New("event publisher is closed")

const (
	defaultBufferSize   = 1024
	defaultWriteTimeout = 5 * time.Second
)

// MessageSender 按 topic/key 发送 JSON 消息，由 mq.KafkaProducer 实现
type MessageSender interface {
	SendMessage(ctx context.Context, topic, key string, value any) error
	Close() error
}

// calculationEventMessage 消息体
type calculationEventMessage struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	Product    string    `json:"product"`
	Outcome    string    `json:"outcome"`
	Samples    int       `json:"samples,omitempty"`
	Scenarios  int       `json:"scenarios,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	OccurredOn time.Time `json:"occurred_on"`
}

// KafkaEventPublisher 异步投递测算事件
// 请求路径只负责入队，后台协程串行写入 Kafka；缓冲区满时立即返回 ErrPublisherBusy。
type KafkaEventPublisher struct {
	sender MessageSender
	topic  string
	events chan domain.CalculationCompletedEvent

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewKafkaEventPublisher 创建发布者并启动后台投递协程
func NewKafkaEventPublisher(sender MessageSender, topic string, bufferSize int) *KafkaEventPublisher {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	p := &KafkaEventPublisher{
		sender: sender,
		topic:  topic,
		events: make(chan domain.CalculationCompletedEvent, bufferSize),
		done:   make(chan struct{}),
	}
	go p.run()
	return p
}

// PublishCalculationCompleted 发布测算完成事件
func (p *KafkaEventPublisher) PublishCalculationCompleted(_ context.Context, event domain.CalculationCompletedEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.events <- event:
		return nil
	default:
		return ErrPublisherBusy
	}
}

func (p *KafkaEventPublisher) run() {
	defer close(p.done)
	for event := range p.events {
		ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
		if event.RequestID != "" {
			ctx = logger.WithRequestID(ctx, event.RequestID)
		}
		msg := calculationEventMessage{
			EventID:    event.EventID,
			EventType:  "CalculationCompletedEvent",
			RequestID:  event.RequestID,
			Product:    event.Product,
			Outcome:    event.Outcome,
			Samples:    event.Samples,
			Scenarios:  event.Scenarios,
			DurationMs: event.DurationMs,
			OccurredOn: event.OccurredOn,
		}
		if err := p.sender.SendMessage(ctx, p.topic, event.Product, msg); err != nil {
			logger.Warn(ctx, "calculation event dropped", "event_id", event.EventID, "error", err)
		}
		cancel()
	}
}

// Close 停止接收新事件，等待缓冲区投递完毕或 ctx 结束，然后关闭底层 sender
func (p *KafkaEventPublisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-ctx.Done():
		return errors.Join(ctx.Err(), p.sender.Close())
	}
	return p.sender.Close()
}

// NopEventPublisher 丢弃全部事件，Kafka 未启用时使用
type NopEventPublisher struct{}

// PublishCalculationCompleted 实现 domain.EventPublisher
func (NopEventPublisher) PublishCalculationCompleted(context.Context, domain.CalculationCompletedEvent) error {
	return nil
}

// Close 无操作
func (NopEventPublisher) Close(context.Context) error {
	return nil
}
