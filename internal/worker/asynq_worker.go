package worker

import (
	"context"
	"encoding/json"

	"github.com/balneario-store/internal/logger"
	"github.com/balneario-store/internal/provider"
	"github.com/balneario-store/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskNotificationDispatch, c.handleNotificationDispatch)
}

// handleNotificationDispatch 投递购买事件通知。
// 载荷异常与通知失败都不重试，避免队列被坏消息卡住。
func (c *Consumer) handleNotificationDispatch(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.NotificationDispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_notification_unmarshal_failed", "error", err)
		return nil
	}
	if payload.PurchaseID == 0 || payload.EventType == "" {
		logger.Debugw("worker_notification_skip_invalid_payload",
			"purchase_id", payload.PurchaseID,
			"event_type", payload.EventType)
		return nil
	}
	if c.NotificationService == nil {
		logger.Warnw("worker_notification_skip_service_nil", "purchase_id", payload.PurchaseID)
		return nil
	}

	if err := c.NotificationService.Dispatch(ctx, payload.EventType, payload.PurchaseID); err != nil {
		logger.Warnw("worker_notification_dispatch_failed",
			"purchase_id", payload.PurchaseID,
			"event_type", payload.EventType,
			"error", err)
	}
	return nil
}
