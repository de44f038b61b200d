package router

import (
	"sort"
	"strings"

	"github.com/cryptologowall/internal/authz"
	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/config"
	adminhandlers "github.com/cryptologowall/internal/http/handlers/admin"
	publichandlers "github.com/cryptologowall/internal/http/handlers/public"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/i18n"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	redisClient := cache.Client()
	apiRule := newRateLimitRule(cache.BuildKey("rate:api"), cfg.Security.APIRateLimit, "")
	submitRule := newRateLimitRule(cache.BuildKey("rate:submit"), cfg.Security.SubmitLimit, "")
	loginRule := newRateLimitRule(cache.BuildKey("rate:admin_login"), cfg.Security.LoginLimit, "")

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	r.Use(LocaleMiddleware())

	// 上传的徽标
	uploadDir := strings.TrimSpace(cfg.Upload.Dir)
	if uploadDir == "" {
		uploadDir = "uploads"
	}
	r.Static("/uploads", uploadDir)
	r.GET("/sitemap.xml", publicHandler.GetSitemap)

	apiV1 := r.Group("/api/v1")
	{
		// 支付回调，由 CryptoBot 调用，不参与访客限流
		apiV1.POST("/payments/cryptobot/webhook", publicHandler.CryptoBotWebhook)

		// 公开接口
		public := apiV1.Group("")
		public.Use(RateLimitMiddleware(redisClient, apiRule, KeyByIP))
		{
			public.GET("/logos", publicHandler.GetLogos)
			public.GET("/projects/:id", publicHandler.GetProject)
			public.POST("/projects", RateLimitMiddleware(redisClient, submitRule, KeyByIP), publicHandler.SubmitProject)
			public.POST("/projects/:id/reviews", RateLimitMiddleware(redisClient, submitRule, KeyByIP), publicHandler.SubmitReview)
			public.GET("/payments/:payment_id/status", publicHandler.GetPaymentStatus)
			public.GET("/i18n/:lang", publicHandler.GetTranslations)
			public.GET("/languages", publicHandler.GetLanguages)
			public.GET("/site", publicHandler.GetSite)
			public.GET("/sitemap.xml", publicHandler.GetSitemap)
		}

		// 管理员接口
		admin := apiV1.Group("/admin")
		{
			// 登录接口（无需鉴权）
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.AdminLogin)
			admin.GET("/captcha", RateLimitMiddleware(redisClient, loginRule, KeyByIP), adminHandler.GetCaptcha)

			// 需要鉴权的接口
			authorized := admin.Group("")
			authorized.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AuthService), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.GET("/me", adminHandler.GetMe)
				authorized.GET("/dashboard", adminHandler.GetDashboardOverview)
				authorized.GET("/permissions/catalog", func(ctx *gin.Context) {
					roles, err := buildAdminRoleGrants(c.AuthzService)
					if err != nil {
						logger.Errorw("admin_permission_catalog_failed", "error", err)
						response.Error(ctx, response.CodeInternal, i18n.T(i18n.ResolveLocale(ctx), "error.internal"))
						return
					}
					response.Success(ctx, adminPermissionCatalog{
						Routes: buildAdminPermissionCatalog(r),
						Roles:  roles,
					})
				})

				// 徽标管理
				authorized.GET("/logos", adminHandler.GetAdminLogos)
				authorized.POST("/logos/:id/toggle", adminHandler.ToggleAdminLogo)
				authorized.DELETE("/logos/:id", adminHandler.DeleteAdminLogo)

				// 评论审核
				authorized.GET("/reviews", adminHandler.GetAdminReviews)
				authorized.POST("/reviews/:id/approve", adminHandler.ApproveAdminReview)
				authorized.POST("/reviews/:id/disapprove", adminHandler.DisapproveAdminReview)
				authorized.DELETE("/reviews/:id", adminHandler.DeleteAdminReview)

				// 支付记录
				authorized.GET("/payments", adminHandler.GetAdminPayments)
				authorized.GET("/payments/:payment_id", adminHandler.GetAdminPayment)
				authorized.POST("/payments/:payment_id/check", adminHandler.CheckAdminPayment)

				// 翻译管理
				authorized.GET("/translations", adminHandler.GetTranslations)
				authorized.PUT("/translations", adminHandler.UpsertTranslation)
				authorized.DELETE("/translations/:id", adminHandler.DeleteTranslation)

				// 后台账号
				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.POST("/users", adminHandler.CreateAdminUser)
				authorized.PUT("/users/:id", adminHandler.UpdateAdminUser)
				authorized.POST("/users/:id/toggle", adminHandler.ToggleAdminUser)
				authorized.DELETE("/users/:id", adminHandler.DeleteAdminUser)

				// 站点设置
				authorized.GET("/settings", adminHandler.GetSettings)
				authorized.PUT("/settings/general", adminHandler.UpdateGeneralSettings)
				authorized.PUT("/settings/seo", adminHandler.UpdateSEOSettings)
				authorized.PUT("/settings/integrations", adminHandler.UpdateIntegrationSettings)

				// 数据备份
				authorized.GET("/backups", adminHandler.GetBackups)
				authorized.POST("/backups", adminHandler.CreateBackup)
				authorized.GET("/backups/:name/download", adminHandler.DownloadBackup)
				authorized.DELETE("/backups/:name", adminHandler.DeleteBackup)

				// 操作日志
				authorized.GET("/activity-logs", adminHandler.GetActivityLogs)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

type adminPermissionCatalog struct {
	Routes []adminPermissionCatalogItem `json:"routes"`
	Roles  []adminRoleGrant             `json:"roles"`
}

type adminRoleGrant struct {
	Role     string         `json:"role"`
	Policies []authz.Policy `json:"policies"`
}

type adminPermissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

func buildAdminPermissionCatalog(engine *gin.Engine) []adminPermissionCatalogItem {
	if engine == nil {
		return []adminPermissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]adminPermissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" || item.Path == "/api/v1/admin/captcha" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, adminPermissionCatalogItem{
			Module:     deriveAdminPermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

func deriveAdminPermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}

// buildAdminRoleGrants 列出预置角色及其直接授予的策略
func buildAdminRoleGrants(authzService *authz.Service) ([]adminRoleGrant, error) {
	roles, err := authzService.ListRoles()
	if err != nil {
		return nil, err
	}
	grants := make([]adminRoleGrant, 0, len(roles))
	for _, role := range roles {
		policies, err := authzService.GetRolePolicies(role)
		if err != nil {
			return nil, err
		}
		grants = append(grants, adminRoleGrant{Role: role, Policies: policies})
	}
	return grants, nil
}
