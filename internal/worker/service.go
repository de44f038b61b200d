package worker

import (
	"context"
	"errors"
	"time"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	defaultReconcileInterval = 5 * time.Minute
	defaultReconcileAge      = 10 * time.Minute
	defaultReconcileBatch    = 50
)

// Service 异步队列服务
type Service struct {
	name      string
	server    *asynq.Server
	mux       *asynq.ServeMux
	consumer  *Consumer
	reconcile reconcileOptions
}

type reconcileOptions struct {
	interval time.Duration
	age      time.Duration
	batch    int
}

func newReconcileOptions(cfg *config.CryptoBotConfig) reconcileOptions {
	opts := reconcileOptions{
		interval: defaultReconcileInterval,
		age:      defaultReconcileAge,
		batch:    defaultReconcileBatch,
	}
	if cfg == nil {
		return opts
	}
	if cfg.ReconcileInterval > 0 {
		opts.interval = time.Duration(cfg.ReconcileInterval) * time.Second
	}
	if cfg.ReconcileAge > 0 {
		opts.age = time.Duration(cfg.ReconcileAge) * time.Second
	}
	if cfg.ReconcileBatch > 0 {
		opts.batch = cfg.ReconcileBatch
	}
	return opts
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	var cryptoCfg *config.CryptoBotConfig
	if consumer.Container != nil && consumer.Config != nil {
		cryptoCfg = &consumer.Config.CryptoBot
	}
	return &Service{
		name:      "worker",
		server:    server,
		mux:       mux,
		consumer:  consumer,
		reconcile: newReconcileOptions(cryptoCfg),
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil && s.consumer.PaymentService != nil {
		go s.runPaymentReconcileLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runPaymentReconcileLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.PaymentService == nil {
		return
	}
	runOnce := func() {
		if _, err := s.consumer.PaymentService.ReconcilePending(ctx, s.reconcile.age, s.reconcile.batch); err != nil {
			logger.Warnw("worker_payment_reconcile_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.reconcile.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
