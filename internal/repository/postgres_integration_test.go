//go:build integration
// +build integration

package repository

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{&models.Payment{}, &models.Review{}, &models.Project{}}
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := db.AutoMigrate(&models.Project{}, &models.Review{}, &models.Payment{}); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresPaymentLockAndActivation(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	project := &models.Project{Name: "PG", Website: "https://pg.example", PaymentStatus: constants.EntityPaymentPending, PaymentID: "logo_pg_1"}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	payment := &models.Payment{
		PaymentID: "logo_pg_1",
		Currency:  "USD",
		Type:      constants.PaymentTypeLogo,
		Status:    constants.PaymentStatusPending,
		EntityID:  project.ID,
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		paymentRepo := NewPaymentRepository(db).WithTx(tx)
		locked, err := paymentRepo.GetByPaymentIDForUpdate("logo_pg_1")
		if err != nil {
			return err
		}
		if locked == nil {
			t.Fatalf("expected locked payment")
		}
		if _, err := paymentRepo.MarkCompleted("logo_pg_1", "inv-pg", now); err != nil {
			return err
		}
		rows, err := NewProjectRepository(db).WithTx(tx).ActivateByPayment(project.ID, "logo_pg_1", now.Unix())
		if err != nil {
			return err
		}
		if rows != 1 {
			t.Fatalf("expected project activation, rows=%d", rows)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}

	active := true
	rows, total, err := NewProjectRepository(db).ListAdmin(ProjectListFilter{Keyword: "pg", Active: &active, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("ilike search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected case-insensitive match, total=%d", total)
	}
}
