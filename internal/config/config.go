package config

import (
	"fmt"
	"strings"

	"github.com/cryptologowall/internal/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Upload    UploadConfig    `mapstructure:"upload"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Security  SecurityConfig  `mapstructure:"security"`
	CryptoBot CryptoBotConfig `mapstructure:"cryptobot"`
	Site      SiteConfig      `mapstructure:"site"`
	Backup    BackupConfig    `mapstructure:"backup"`
	Sitemap   SitemapConfig   `mapstructure:"sitemap"`
	Captcha   CaptchaConfig   `mapstructure:"captcha"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	Level      string `mapstructure:"level"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
	Stdout     bool   `mapstructure:"stdout"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		Level:      c.Level,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
		Stdout:     c.Stdout,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig 后台 JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// UploadConfig 徽标上传配置
type UploadConfig struct {
	Dir               string   `mapstructure:"dir"`
	MaxSize           int64    `mapstructure:"max_size"`
	AllowedTypes      []string `mapstructure:"allowed_types"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	MaxWidth          int      `mapstructure:"max_width"`
	MaxHeight         int      `mapstructure:"max_height"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginLockout LoginLockoutConfig `mapstructure:"login_lockout"`
	APIRateLimit RateLimitConfig    `mapstructure:"api_rate_limit"`
	SubmitLimit  RateLimitConfig    `mapstructure:"submit_rate_limit"`
	LoginLimit   RateLimitConfig    `mapstructure:"login_rate_limit"`
}

// LoginLockoutConfig 后台账号锁定配置
type LoginLockoutConfig struct {
	MaxAttempts   int `mapstructure:"max_attempts"`
	LockoutSecond int `mapstructure:"lockout_seconds"`
}

// RateLimitConfig 接口限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// CryptoBotConfig CryptoBot 支付配置
type CryptoBotConfig struct {
	APIBase           string `mapstructure:"api_base"`
	APIToken          string `mapstructure:"api_token"`
	BotUsername       string `mapstructure:"bot_username"`
	WebhookSecret     string `mapstructure:"webhook_secret"`
	Currency          string `mapstructure:"currency"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	CheckDelaySeconds int    `mapstructure:"check_delay_seconds"`
	ReconcileInterval int    `mapstructure:"reconcile_interval_seconds"`
	ReconcileAge      int    `mapstructure:"reconcile_age_seconds"`
	ReconcileBatch    int    `mapstructure:"reconcile_batch"`
}

// SiteConfig 站点基础配置
type SiteConfig struct {
	URL         string   `mapstructure:"url"`
	Name        string   `mapstructure:"name"`
	DefaultLang string   `mapstructure:"default_lang"`
	Languages   []string `mapstructure:"languages"`
}

// BackupConfig 数据库备份配置
type BackupConfig struct {
	Dir  string `mapstructure:"dir"`
	Keep int    `mapstructure:"keep"`
}

// SitemapConfig 站点地图配置
type SitemapConfig struct {
	Path string `mapstructure:"path"`
}

// CaptchaConfig 后台登录图片验证码配置
type CaptchaConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	Length        int  `mapstructure:"length"`
	Width         int  `mapstructure:"width"`
	Height        int  `mapstructure:"height"`
	NoiseCount    int  `mapstructure:"noise_count"`
	ShowLine      int  `mapstructure:"show_line"`
	ExpireSeconds int  `mapstructure:"expire_seconds"`
	MaxStore      int  `mapstructure:"max_store"`
}

// BootstrapConfig 首次启动的管理员账号
type BootstrapConfig struct {
	AdminUsername string `mapstructure:"admin_username"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// Load 从 .env 与 config.yml 加载配置
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		logger.Infow("config_env_file_loaded", "file", ".env")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")   // 从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // cryptobot.api_token -> CRYPTOBOT_API_TOKEN

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "logowall.log")
	v.SetDefault("log.level", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("log.stdout", false)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/logowall.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expire_hours", 12)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "clw")
	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 5)
	v.SetDefault("queue.queues", map[string]int{
		"critical": 6,
		"default":  3,
		"low":      1,
	})
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_size", 512*1024)
	v.SetDefault("upload.allowed_types", []string{
		"image/png",
		"image/jpeg",
		"image/gif",
		"image/svg+xml",
	})
	v.SetDefault("upload.allowed_extensions", []string{".png", ".jpg", ".jpeg", ".gif", ".svg"})
	v.SetDefault("upload.max_width", 2048)
	v.SetDefault("upload.max_height", 2048)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Origin",
		"Content-Type",
		"Content-Length",
		"Accept-Language",
		"Authorization",
		"X-Requested-With",
	})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("security.login_lockout.max_attempts", 5)
	v.SetDefault("security.login_lockout.lockout_seconds", 900)
	v.SetDefault("security.api_rate_limit.window_seconds", 3600)
	v.SetDefault("security.api_rate_limit.max_requests", 100)
	v.SetDefault("security.api_rate_limit.block_seconds", 0)
	v.SetDefault("security.submit_rate_limit.window_seconds", 600)
	v.SetDefault("security.submit_rate_limit.max_requests", 10)
	v.SetDefault("security.submit_rate_limit.block_seconds", 600)
	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_requests", 20)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("cryptobot.api_base", "https://pay.crypt.bot/api")
	v.SetDefault("cryptobot.api_token", "")
	v.SetDefault("cryptobot.bot_username", "CryptoBot")
	v.SetDefault("cryptobot.webhook_secret", "")
	v.SetDefault("cryptobot.currency", "USD")
	v.SetDefault("cryptobot.timeout_seconds", 10)
	v.SetDefault("cryptobot.check_delay_seconds", 120)
	v.SetDefault("cryptobot.reconcile_interval_seconds", 300)
	v.SetDefault("cryptobot.reconcile_age_seconds", 600)
	v.SetDefault("cryptobot.reconcile_batch", 50)
	v.SetDefault("site.url", "http://localhost:8080")
	v.SetDefault("site.name", "CryptoLogoWall")
	v.SetDefault("site.default_lang", "en")
	v.SetDefault("site.languages", []string{"en", "ru", "uk"})
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.keep", 10)
	v.SetDefault("sitemap.path", "public/sitemap.xml")
	v.SetDefault("captcha.enabled", false)
	v.SetDefault("captcha.length", 5)
	v.SetDefault("captcha.width", 240)
	v.SetDefault("captcha.height", 80)
	v.SetDefault("captcha.noise_count", 2)
	v.SetDefault("captcha.show_line", 2)
	v.SetDefault("captcha.expire_seconds", 300)
	v.SetDefault("captcha.max_store", 10240)
	v.SetDefault("bootstrap.admin_username", "admin")
	v.SetDefault("bootstrap.admin_email", "admin@example.com")
	v.SetDefault("bootstrap.admin_password", "")
}
