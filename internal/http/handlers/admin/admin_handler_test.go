package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/http/response"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/provider"
	"github.com/cryptologowall/internal/repository"
	"github.com/cryptologowall/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func setupAdminHandlerTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.Site.Name = "CryptoLogoWall"
	cfg.Site.URL = "https://wall.example"
	cfg.JWT.SecretKey = "admin-handler-test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.LoginLockout.MaxAttempts = 5
	cfg.Security.LoginLockout.LockoutSecond = 900
	cfg.Backup.Dir = t.TempDir()
	cfg.Upload.Dir = t.TempDir()

	adminRepo := repository.NewAdminRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	activitySvc := service.NewActivityService(activityRepo)
	settingSvc := service.NewSettingService(repository.NewSettingRepository(db), cfg)
	authSvc := service.NewAuthService(cfg, adminRepo, activitySvc)
	paymentSvc := service.NewPaymentService(cfg, paymentRepo, projectRepo, reviewRepo, settingSvc, activitySvc, nil, nil)

	hash, err := authSvc.HashPassword("Passw0rd!")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	if err := db.Create(&models.Admin{
		Username:     "root",
		Email:        "root@example.com",
		PasswordHash: hash,
		Role:         constants.RoleAdmin,
		IsActive:     true,
	}).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	h := New(&provider.Container{
		Config:           cfg,
		ActivityService:  activitySvc,
		AuthService:      authSvc,
		CaptchaService:   service.NewCaptchaService(config.CaptchaConfig{}),
		SettingService:   settingSvc,
		PaymentService:   paymentSvc,
		ProjectService:   service.NewProjectService(projectRepo, reviewRepo, paymentRepo, paymentSvc, service.NewUploadService(cfg), activitySvc, nil),
		BackupService:    service.NewBackupService(cfg, nil, activitySvc),
		DashboardService: service.NewDashboardService(projectRepo, reviewRepo, activityRepo),
	})

	engine := gin.New()
	engine.POST("/admin/login", h.AdminLogin)
	engine.POST("/admin/logos/:id/toggle", h.ToggleAdminLogo)
	engine.PUT("/admin/settings/general", h.UpdateGeneralSettings)
	engine.GET("/admin/backups/:name/download", h.DownloadBackup)
	engine.GET("/admin/payments/:payment_id", h.GetAdminPayment)
	engine.GET("/admin/dashboard", h.GetDashboardOverview)
	return engine, db
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s: expected http 200, got %d", method, path, w.Code)
	}
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestAdminLogin(t *testing.T) {
	engine, _ := setupAdminHandlerTest(t)

	ok := doJSON(t, engine, http.MethodPost, "/admin/login", gin.H{"username": "root", "password": "Passw0rd!"})
	if ok.StatusCode != response.CodeOK {
		t.Fatalf("expected login success, got %d %s", ok.StatusCode, ok.Msg)
	}
	var data LoginResponse
	if err := json.Unmarshal(ok.Data, &data); err != nil {
		t.Fatalf("decode login data failed: %v", err)
	}
	if data.Token == "" || data.User.Username != "root" || data.User.Role != constants.RoleAdmin {
		t.Fatalf("unexpected login data: %+v", data)
	}

	bad := doJSON(t, engine, http.MethodPost, "/admin/login", gin.H{"username": "root", "password": "wrong-pass1"})
	if bad.StatusCode != response.CodeUnauthorized {
		t.Fatalf("expected 401 code, got %d", bad.StatusCode)
	}

	missing := doJSON(t, engine, http.MethodPost, "/admin/login", gin.H{"username": "root"})
	if missing.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected 400 code, got %d", missing.StatusCode)
	}
}

func TestToggleAdminLogo(t *testing.T) {
	engine, db := setupAdminHandlerTest(t)
	project := &models.Project{Name: "Acme", Website: "https://acme.example", PaymentStatus: constants.EntityPaymentCompleted, Active: true}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project failed: %v", err)
	}

	resp := doJSON(t, engine, http.MethodPost, fmt.Sprintf("/admin/logos/%d/toggle", project.ID), nil)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("expected toggle success, got %d", resp.StatusCode)
	}
	var stored models.Project
	if err := db.First(&stored, project.ID).Error; err != nil {
		t.Fatalf("reload project failed: %v", err)
	}
	if stored.Active {
		t.Fatalf("project should be hidden after toggle")
	}

	missing := doJSON(t, engine, http.MethodPost, "/admin/logos/999/toggle", nil)
	if missing.StatusCode != response.CodeNotFound {
		t.Fatalf("expected 404 code, got %d", missing.StatusCode)
	}
	invalid := doJSON(t, engine, http.MethodPost, "/admin/logos/abc/toggle", nil)
	if invalid.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected 400 code, got %d", invalid.StatusCode)
	}

	unpaid := &models.Project{Name: "Pending", Website: "https://pending.example", PaymentStatus: constants.EntityPaymentPending}
	if err := db.Create(unpaid).Error; err != nil {
		t.Fatalf("create unpaid project failed: %v", err)
	}
	conflict := doJSON(t, engine, http.MethodPost, fmt.Sprintf("/admin/logos/%d/toggle", unpaid.ID), nil)
	if conflict.StatusCode != response.CodeConflict {
		t.Fatalf("expected 409 code for unpaid logo, got %d", conflict.StatusCode)
	}
	var reloaded models.Project
	if err := db.First(&reloaded, unpaid.ID).Error; err != nil {
		t.Fatalf("reload unpaid project failed: %v", err)
	}
	if reloaded.Active {
		t.Fatalf("unpaid project must stay hidden")
	}
}

func TestUpdateGeneralSettingsValidation(t *testing.T) {
	engine, db := setupAdminHandlerTest(t)

	bad := doJSON(t, engine, http.MethodPut, "/admin/settings/general", service.GeneralSetting{
		SiteName:    "Wall",
		LogoPrice:   "0",
		ReviewPrice: "1.00",
	})
	if bad.StatusCode != response.CodeBadRequest {
		t.Fatalf("expected 400 code for invalid price, got %d", bad.StatusCode)
	}

	ok := doJSON(t, engine, http.MethodPut, "/admin/settings/general", service.GeneralSetting{
		SiteName:    "Wall",
		LogoPrice:   "15.00",
		ReviewPrice: "2.50",
	})
	if ok.StatusCode != response.CodeOK {
		t.Fatalf("expected update success, got %d %s", ok.StatusCode, ok.Msg)
	}
	var logs int64
	if err := db.Model(&models.ActivityLog{}).Where("action = ?", constants.ActivityUpdateSettings).Count(&logs).Error; err != nil {
		t.Fatalf("count activity failed: %v", err)
	}
	if logs != 1 {
		t.Fatalf("expected one settings activity entry, got %d", logs)
	}
}

func TestDownloadBackupRejectsInvalidNames(t *testing.T) {
	engine, _ := setupAdminHandlerTest(t)

	cases := map[string]int{
		"/admin/backups/..backup.jsonl.gz/download":                   response.CodeBadRequest,
		"/admin/backups/notes.txt/download":                           response.CodeBadRequest,
		"/admin/backups/backup_2026-01-01_00-00-00.jsonl.gz/download": response.CodeNotFound,
	}
	for path, want := range cases {
		resp := doJSON(t, engine, http.MethodGet, path, nil)
		if resp.StatusCode != want {
			t.Fatalf("%s: expected code %d, got %d", path, want, resp.StatusCode)
		}
	}
}

func TestGetAdminPaymentNotFound(t *testing.T) {
	engine, _ := setupAdminHandlerTest(t)
	resp := doJSON(t, engine, http.MethodGet, "/admin/payments/logo_missing", nil)
	if resp.StatusCode != response.CodeNotFound {
		t.Fatalf("expected 404 code, got %d", resp.StatusCode)
	}
}

func TestGetDashboardOverview(t *testing.T) {
	engine, db := setupAdminHandlerTest(t)

	projects := []*models.Project{
		{Name: "Paid", Website: "https://paid.example", Active: true, PaymentStatus: constants.EntityPaymentCompleted},
		{Name: "Waiting", Website: "https://waiting.example", PaymentStatus: constants.EntityPaymentPending},
		{Name: "Draft", Website: "https://draft.example", PaymentStatus: constants.EntityPaymentNone},
	}
	for _, project := range projects {
		if err := db.Create(project).Error; err != nil {
			t.Fatalf("create project failed: %v", err)
		}
	}
	reviews := []*models.Review{
		{ProjectID: projects[0].ID, AuthorName: "Alice", Rating: 5, Approved: true, PaymentStatus: constants.EntityPaymentCompleted},
		{ProjectID: projects[0].ID, AuthorName: "Bob", Rating: 3, PaymentStatus: constants.EntityPaymentPending},
	}
	for _, review := range reviews {
		if err := db.Create(review).Error; err != nil {
			t.Fatalf("create review failed: %v", err)
		}
	}
	var root models.Admin
	if err := db.Where("username = ?", "root").First(&root).Error; err != nil {
		t.Fatalf("load admin failed: %v", err)
	}
	if err := db.Create(&models.ActivityLog{UserID: &root.ID, Action: constants.ActivityToggleLogo, EntityType: constants.EntityTypeProject, EntityID: "1"}).Error; err != nil {
		t.Fatalf("create activity failed: %v", err)
	}

	resp := doJSON(t, engine, http.MethodGet, "/admin/dashboard?refresh=1", nil)
	if resp.StatusCode != response.CodeOK {
		t.Fatalf("expected dashboard success, got %d %s", resp.StatusCode, resp.Msg)
	}
	var overview service.DashboardOverview
	if err := json.Unmarshal(resp.Data, &overview); err != nil {
		t.Fatalf("decode dashboard failed: %v", err)
	}
	if overview.Logos.Total != 3 || overview.Logos.Active != 1 || overview.Logos.Pending != 1 {
		t.Fatalf("unexpected logo counts: %+v", overview.Logos)
	}
	if overview.Reviews.Total != 2 || overview.Reviews.Approved != 1 || overview.Reviews.Pending != 1 {
		t.Fatalf("unexpected review counts: %+v", overview.Reviews)
	}
	if len(overview.LatestLogos) != 3 || len(overview.LatestReviews) != 2 {
		t.Fatalf("unexpected latest lists: %d logos %d reviews", len(overview.LatestLogos), len(overview.LatestReviews))
	}
	if overview.LatestReviews[0].ProjectName != "Paid" {
		t.Fatalf("review should carry project name: %+v", overview.LatestReviews[0])
	}
	if len(overview.LatestActivity) != 1 || overview.LatestActivity[0].Username != "root" {
		t.Fatalf("unexpected latest activity: %+v", overview.LatestActivity)
	}
}

