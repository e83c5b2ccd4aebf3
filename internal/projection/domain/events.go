package domain

import (
	"context"
	"time"
)

// CalculationCompletedEvent 测算完成事件
// 只携带元数据，不包含计算结果与请求金额
type CalculationCompletedEvent struct {
	EventID    string
	RequestID  string
	Product    string
	Outcome    string // success / failure
	Samples    int    // 仅蒙特卡洛
	Scenarios  int    // 仅方案对比
	DurationMs int64
	OccurredOn time.Time
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	// PublishCalculationCompleted 发布测算完成事件
	PublishCalculationCompleted(ctx context.Context, event CalculationCompletedEvent) error
}
