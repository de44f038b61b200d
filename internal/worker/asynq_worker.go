package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/provider"
	"github.com/cryptologowall/internal/queue"

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
	mux.HandleFunc(queue.TaskPaymentCheck, c.handlePaymentCheck)
	mux.HandleFunc(queue.TaskSitemapGenerate, c.handleSitemapGenerate)
	mux.HandleFunc(queue.TaskBackupCreate, c.handleBackupCreate)
}

func (c *Consumer) handlePaymentCheck(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_payment_check_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.PaymentCheckPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_payment_check_unmarshal_failed", "error", err)
		return err
	}
	paymentID := strings.TrimSpace(payload.PaymentID)
	if paymentID == "" {
		logger.Debugw("worker_payment_check_skip_invalid_payload")
		return nil
	}
	if c.PaymentService == nil {
		logger.Warnw("worker_payment_check_skip_payment_service_nil", "payment_id", paymentID)
		return nil
	}
	result, err := c.PaymentService.Poll(ctx, paymentID)
	if err != nil {
		// Poll 仅在存储出错时返回 error，交给 asynq 重试
		logger.Warnw("worker_payment_check_failed", "payment_id", paymentID, "error", err)
		return err
	}
	logger.Debugw("worker_payment_check_done", "payment_id", paymentID, "status", result.String())
	return nil
}

func (c *Consumer) handleSitemapGenerate(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_sitemap_generate_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SitemapGeneratePayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Warnw("worker_sitemap_generate_unmarshal_failed", "error", err)
			return err
		}
	}
	if c.SitemapService == nil {
		logger.Warnw("worker_sitemap_generate_skip_service_nil", "reason", payload.Reason)
		return nil
	}
	path, err := c.SitemapService.Generate(ctx)
	if err != nil {
		logger.Warnw("worker_sitemap_generate_failed", "reason", payload.Reason, "error", err)
		return err
	}
	logger.Debugw("worker_sitemap_generated", "reason", payload.Reason, "path", path)
	return nil
}

func (c *Consumer) handleBackupCreate(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_backup_create_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.BackupCreatePayload
	if len(task.Payload()) > 0 {
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			logger.Warnw("worker_backup_create_unmarshal_failed", "error", err)
			return err
		}
	}
	if c.BackupService == nil {
		logger.Warnw("worker_backup_create_skip_service_nil", "requested_by", payload.RequestedBy)
		return nil
	}
	file, err := c.BackupService.Create(ctx)
	if err != nil {
		logger.Warnw("worker_backup_create_failed", "requested_by", payload.RequestedBy, "error", err)
		return err
	}
	logger.Infow("worker_backup_created", "requested_by", payload.RequestedBy, "file", file.Name)
	return nil
}
