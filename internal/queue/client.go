package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault
)

// Client 队列客户端封装
type Client struct {
	client  *asynq.Client
	enabled bool
}

// NewClient 创建队列客户端，未启用时返回空实现
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{enabled: false}, nil
	}
	return &Client{
		client:  asynq.NewClient(buildRedisOpt(cfg)),
		enabled: true,
	}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueuePaymentCheck 延迟推送支付查询任务（同一支付只保留一个待执行任务）
func (c *Client) EnqueuePaymentCheck(payload PaymentCheckPayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	if delay < 0 {
		delay = 0
	}
	task, err := NewPaymentCheckTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(constants.QueueCritical),
		asynq.ProcessIn(delay),
		asynq.TaskID(TaskPaymentCheck+":"+payload.PaymentID),
		asynq.MaxRetry(3),
	)
	return ignoreDuplicate(err)
}

// EnqueueSitemapGenerate 推送站点地图生成任务（短时间内合并）
func (c *Client) EnqueueSitemapGenerate(payload SitemapGeneratePayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewSitemapGenerateTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(constants.QueueLow),
		asynq.Unique(time.Minute),
		asynq.MaxRetry(2),
	)
	return ignoreDuplicate(err)
}

// EnqueueBackupCreate 推送数据库备份任务
func (c *Client) EnqueueBackupCreate(payload BackupCreatePayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewBackupCreateTask(payload)
	if err != nil {
		return err
	}
	_, err = c.client.Enqueue(task,
		asynq.Queue(DefaultQueue),
		asynq.Timeout(10*time.Minute),
		asynq.MaxRetry(1),
	)
	return err
}

func ignoreDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, asynq.ErrDuplicateTask) || errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// BuildServerConfig 生成队列服务配置
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	opt := buildRedisOpt(cfg)
	concurrency := 5
	if cfg != nil && cfg.Concurrency > 0 {
		concurrency = cfg.Concurrency
	}
	queues := map[string]int{
		constants.QueueCritical: 6,
		DefaultQueue:            3,
		constants.QueueLow:      1,
	}
	if cfg != nil && len(cfg.Queues) > 0 {
		queues = cfg.Queues
	}
	return opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	password := ""
	db := 0
	if cfg != nil {
		if strings.TrimSpace(cfg.Host) != "" {
			host = strings.TrimSpace(cfg.Host)
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		password = cfg.Password
		db = cfg.DB
	}
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	}
}
