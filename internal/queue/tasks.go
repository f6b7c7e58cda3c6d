package queue

import (
	"encoding/json"

	"github.com/balneario-store/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskNotificationDispatch 购买事件通知投递任务
	TaskNotificationDispatch = constants.TaskNotificationDispatch
)

// NotificationDispatchPayload 通知投递任务载荷
type NotificationDispatchPayload struct {
	EventType  string `json:"event_type"`
	PurchaseID uint   `json:"purchase_id"`
}

// NewNotificationDispatchTask 创建通知投递任务
func NewNotificationDispatchTask(payload NotificationDispatchPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationDispatch, body), nil
}
