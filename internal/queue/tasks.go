package queue

import (
	"encoding/json"

	"github.com/cryptologowall/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPaymentCheck 支付状态补偿查询任务
	TaskPaymentCheck = constants.TaskPaymentCheck
	// TaskSitemapGenerate 站点地图生成任务
	TaskSitemapGenerate = constants.TaskSitemapGenerate
	// TaskBackupCreate 数据库备份任务
	TaskBackupCreate = constants.TaskBackupCreate
)

// PaymentCheckPayload 支付查询任务载荷
type PaymentCheckPayload struct {
	PaymentID string `json:"payment_id"`
}

// SitemapGeneratePayload 站点地图任务载荷
type SitemapGeneratePayload struct {
	Reason string `json:"reason"`
}

// BackupCreatePayload 备份任务载荷
type BackupCreatePayload struct {
	RequestedBy uint `json:"requested_by"`
}

// NewPaymentCheckTask 创建支付查询任务
func NewPaymentCheckTask(payload PaymentCheckPayload) (*asynq.Task, error) {
	return newTask(TaskPaymentCheck, payload)
}

// NewSitemapGenerateTask 创建站点地图任务
func NewSitemapGenerateTask(payload SitemapGeneratePayload) (*asynq.Task, error) {
	return newTask(TaskSitemapGenerate, payload)
}

// NewBackupCreateTask 创建备份任务
func NewBackupCreateTask(payload BackupCreatePayload) (*asynq.Task, error) {
	return newTask(TaskBackupCreate, payload)
}

func newTask(taskType string, payload interface{}) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, body), nil
}
