package provider

import (
	"time"

	"github.com/cryptologowall/internal/authz"
	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/i18n"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/payment/cryptobot"
	"github.com/cryptologowall/internal/queue"
	"github.com/cryptologowall/internal/repository"
	"github.com/cryptologowall/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	CryptoBot   *cryptobot.Client

	// Repositories
	AdminRepo       repository.AdminRepository
	ProjectRepo     repository.ProjectRepository
	ReviewRepo      repository.ReviewRepository
	PaymentRepo     repository.PaymentRepository
	SettingRepo     repository.SettingRepository
	TranslationRepo repository.TranslationRepository
	ActivityLogRepo repository.ActivityLogRepository

	// Services
	AuthzService       *authz.Service
	ActivityService    *service.ActivityService
	AuthService        *service.AuthService
	AdminUserService   *service.AdminUserService
	CaptchaService     *service.CaptchaService
	SettingService     *service.SettingService
	UploadService      *service.UploadService
	PaymentService     *service.PaymentService
	ProjectService     *service.ProjectService
	ReviewService      *service.ReviewService
	TranslationService *service.TranslationService
	SitemapService     *service.SitemapService
	BackupService      *service.BackupService
	DashboardService   *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		CryptoBot: cryptobot.NewClient(cryptobot.Config{
			APIBase:     cfg.CryptoBot.APIBase,
			APIToken:    cfg.CryptoBot.APIToken,
			BotUsername: cfg.CryptoBot.BotUsername,
			Timeout:     time.Duration(cfg.CryptoBot.TimeoutSeconds) * time.Second,
		}, nil),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.ProjectRepo = repository.NewProjectRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.SettingRepo = repository.NewSettingRepository(db)
	c.TranslationRepo = repository.NewTranslationRepository(db)
	c.ActivityLogRepo = repository.NewActivityLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.ActivityService = service.NewActivityService(c.ActivityLogRepo)
	c.SettingService = service.NewSettingService(c.SettingRepo, c.Config)
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo, c.ActivityService)
	c.AdminUserService = service.NewAdminUserService(c.AdminRepo, c.AuthService, c.ActivityService, c.AuthzService)
	if err := c.AdminUserService.SyncAllRoles(); err != nil {
		logger.Warnw("provider_sync_admin_roles_failed", "error", err)
	}
	c.UploadService = service.NewUploadService(c.Config)
	c.PaymentService = service.NewPaymentService(c.Config, c.PaymentRepo, c.ProjectRepo, c.ReviewRepo, c.SettingService, c.ActivityService, c.QueueClient, c.CryptoBot)
	c.ProjectService = service.NewProjectService(c.ProjectRepo, c.ReviewRepo, c.PaymentRepo, c.PaymentService, c.UploadService, c.ActivityService, c.QueueClient)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProjectRepo, c.PaymentRepo, c.PaymentService, c.ActivityService)
	c.TranslationService = service.NewTranslationService(c.TranslationRepo, c.ActivityService)
	i18n.Configure(c.Config.Site.Languages, c.Config.Site.DefaultLang)
	i18n.SetStore(c.TranslationService)
	c.SitemapService = service.NewSitemapService(c.Config, c.ProjectRepo)
	c.BackupService = service.NewBackupService(c.Config, c.QueueClient, c.ActivityService)
	c.DashboardService = service.NewDashboardService(c.ProjectRepo, c.ReviewRepo, c.ActivityLogRepo)
}
