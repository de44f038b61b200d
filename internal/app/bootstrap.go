package app

import (
	"errors"
	"fmt"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/i18n"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/provider"
	"github.com/cryptologowall/internal/router"
	"github.com/cryptologowall/internal/worker"
)

// InitStorage 连接数据库、迁移表结构并写入初始数据
// 服务进程与运维命令行共用同一套初始化流程
func InitStorage(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, cfg.Server.Mode == "debug"); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return SeedDefaults(cfg)
}

// SeedDefaults 创建默认管理员并补齐内置翻译，可重复执行
func SeedDefaults(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	boot := cfg.Bootstrap
	if cfg.Server.Mode == "release" && boot.AdminPassword == "" {
		logger.Warnw("default_admin_skipped", "reason", "bootstrap.admin_password is empty in release mode")
	} else if err := models.InitDefaultAdmin(boot.AdminUsername, boot.AdminEmail, boot.AdminPassword); err != nil {
		return fmt.Errorf("init default admin: %w", err)
	}
	if err := models.SeedTranslations(i18n.Builtin()); err != nil {
		return fmt.Errorf("seed translations: %w", err)
	}
	return nil
}

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !IsValidMode(mode) {
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	container := provider.NewContainer(cfg)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	// Worker 负责 asynq 任务与支付对账循环
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			if mode == ModeWorker {
				return nil, err
			}
			logger.Warnw("app_worker_disabled", "error", err)
		} else {
			services = append(services, workerService)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode, "site", opts.Config.Site.URL)
	return RunWithOptions(runner, opts)
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}
