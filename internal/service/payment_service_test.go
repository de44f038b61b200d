package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/payment/cryptobot"
	"github.com/cryptologowall/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type stubInvoiceFinder struct {
	invoice *cryptobot.Invoice
	err     error
	calls   int
	during  func()
}

func (f *stubInvoiceFinder) FindPaidInvoice(_ context.Context, paymentID string) (*cryptobot.Invoice, error) {
	f.calls++
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.invoice == nil {
		return nil, nil
	}
	inv := *f.invoice
	inv.Payload = paymentID
	return &inv, nil
}

type paymentTestEnv struct {
	db       *gorm.DB
	cfg      *config.Config
	finder   *stubInvoiceFinder
	payments *PaymentService
	projects *ProjectService
	reviews  *ReviewService
	settings *SettingService
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Site.URL = "https://wall.example"
	cfg.Site.Name = "CryptoLogoWall"
	cfg.CryptoBot.BotUsername = "CryptoBot"
	cfg.CryptoBot.WebhookSecret = "hook-secret"
	cfg.CryptoBot.Currency = "USD"
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxSize = 512 * 1024
	cfg.Upload.AllowedTypes = []string{"image/png", "image/jpeg", "image/gif", "image/svg+xml"}
	cfg.Upload.AllowedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg"}
	cfg.Upload.MaxWidth = 2048
	cfg.Upload.MaxHeight = 2048
	cfg.Backup.Dir = t.TempDir()
	cfg.Backup.Keep = 2
	cfg.Sitemap.Path = t.TempDir() + "/sitemap.xml"
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.ExpireHours = 1
	cfg.Security.LoginLockout.MaxAttempts = 5
	cfg.Security.LoginLockout.LockoutSecond = 900
	return cfg
}

func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func setupPaymentTest(t *testing.T) *paymentTestEnv {
	t.Helper()
	db := openServiceTestDB(t, "payment_service_test")
	cfg := newTestConfig(t)

	paymentRepo := repository.NewPaymentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	settingSvc := NewSettingService(repository.NewSettingRepository(db), cfg)
	activitySvc := NewActivityService(repository.NewActivityLogRepository(db))
	finder := &stubInvoiceFinder{}
	paymentSvc := NewPaymentService(cfg, paymentRepo, projectRepo, reviewRepo, settingSvc, activitySvc, nil, finder)
	uploadSvc := NewUploadService(cfg)

	return &paymentTestEnv{
		db:       db,
		cfg:      cfg,
		finder:   finder,
		payments: paymentSvc,
		projects: NewProjectService(projectRepo, reviewRepo, paymentRepo, paymentSvc, uploadSvc, activitySvc, nil),
		reviews:  NewReviewService(reviewRepo, projectRepo, paymentRepo, paymentSvc, activitySvc),
		settings: settingSvc,
	}
}

func seedProject(t *testing.T, db *gorm.DB, id uint, active bool) *models.Project {
	t.Helper()
	project := &models.Project{
		ID:            id,
		Name:          "Acme",
		Website:       "https://acme.example",
		LogoPath:      "/uploads/logos/acme.png",
		Active:        active,
		PaymentStatus: constants.EntityPaymentNone,
	}
	if active {
		project.PaymentStatus = constants.EntityPaymentCompleted
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("create project failed: %v", err)
	}
	return project
}

func loadPayment(t *testing.T, db *gorm.DB, paymentID string) models.Payment {
	t.Helper()
	var payment models.Payment
	if err := db.Where("payment_id = ?", paymentID).First(&payment).Error; err != nil {
		t.Fatalf("load payment failed: %v", err)
	}
	return payment
}

func loadProject(t *testing.T, db *gorm.DB, id uint) models.Project {
	t.Helper()
	var project models.Project
	if err := db.First(&project, id).Error; err != nil {
		t.Fatalf("load project failed: %v", err)
	}
	return project
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var total int64
	if err := db.Model(model).Count(&total).Error; err != nil {
		t.Fatalf("count rows failed: %v", err)
	}
	return total
}

func invoicePaidBody(paymentID string) []byte {
	return []byte(fmt.Sprintf(`{"update_type":"invoice_paid","payload":%q,"invoice_id":"inv-1"}`, paymentID))
}

func TestIssueLinkCreatesPendingPayment(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)

	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}
	if !strings.HasPrefix(link.PaymentID, "logo_") {
		t.Fatalf("unexpected payment id: %s", link.PaymentID)
	}
	if ParseEntityKind(link.PaymentID) != EntityLogo {
		t.Fatalf("payment id should carry logo prefix")
	}
	if !strings.HasPrefix(link.URL, "https://t.me/CryptoBot/pay?") {
		t.Fatalf("unexpected url: %s", link.URL)
	}
	if !strings.Contains(link.URL, "paid_btn_url=https%3A%2F%2Fwall.example%2Fprojects%2F42") {
		t.Fatalf("paid button url missing: %s", link.URL)
	}
	if !strings.Contains(link.URL, "Add+logo+for+Acme+on+CryptoLogoWall") {
		t.Fatalf("description missing: %s", link.URL)
	}

	payment := loadPayment(t, env.db, link.PaymentID)
	if payment.Status != constants.PaymentStatusPending || payment.Type != constants.PaymentTypeLogo || payment.EntityID != 42 {
		t.Fatalf("unexpected payment: %+v", payment)
	}
	if payment.Amount.String() != "1.00" || payment.Currency != "USD" {
		t.Fatalf("unexpected amount: %s %s", payment.Amount.String(), payment.Currency)
	}
	project := loadProject(t, env.db, 42)
	if project.PaymentID != link.PaymentID || project.PaymentStatus != constants.EntityPaymentPending || project.Active {
		t.Fatalf("unexpected project state: %+v", project)
	}
}

func TestIssueLinkUsesConfiguredPrice(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 7, false)
	general := env.settings.DefaultGeneralSetting()
	general.LogoPrice = "12.5"
	if _, err := env.settings.UpdateGeneral(general); err != nil {
		t.Fatalf("update settings failed: %v", err)
	}

	link, err := env.payments.IssueLink(context.Background(), LogoRef(7))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}
	if link.Amount.String() != "12.50" || !strings.Contains(link.URL, "amount=12.50") {
		t.Fatalf("unexpected amount: %s %s", link.Amount.String(), link.URL)
	}
}

func TestIssueLinkRejectsActiveOrMissingEntity(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 1, true)

	if _, err := env.payments.IssueLink(context.Background(), LogoRef(1)); !errors.Is(err, ErrEntityNotPending) {
		t.Fatalf("expected not pending error, got %v", err)
	}
	if _, err := env.payments.IssueLink(context.Background(), LogoRef(99)); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected project not found, got %v", err)
	}
	if _, err := env.payments.IssueLink(context.Background(), ReviewRef(99)); !errors.Is(err, ErrReviewNotFound) {
		t.Fatalf("expected review not found, got %v", err)
	}
	if _, err := env.payments.IssueLink(context.Background(), EntityRef{}); !errors.Is(err, ErrEntityKindInvalid) {
		t.Fatalf("expected kind invalid, got %v", err)
	}
	if total := countRows(t, env.db, &models.Payment{}); total != 0 {
		t.Fatalf("expected no payments, got %d", total)
	}
}

func TestToggleActiveRequiresCompletedPayment(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}
	actor := ActorContext{UserID: 1, IP: "127.0.0.1"}

	if _, err := env.projects.ToggleActive(context.Background(), 42, actor); !errors.Is(err, ErrEntityNotPaid) {
		t.Fatalf("expected not paid error, got %v", err)
	}
	if project := loadProject(t, env.db, 42); project.Active || project.PaymentStatus != constants.EntityPaymentPending {
		t.Fatalf("unpaid project must stay hidden: %+v", project)
	}
	if payment := loadPayment(t, env.db, link.PaymentID); payment.Status != constants.PaymentStatusPending {
		t.Fatalf("payment should remain pending")
	}

	if _, err := env.payments.ApplyCompletion(context.Background(), link.PaymentID, "inv-42"); err != nil {
		t.Fatalf("apply completion failed: %v", err)
	}
	hidden, err := env.projects.ToggleActive(context.Background(), 42, actor)
	if err != nil || hidden.Active {
		t.Fatalf("paid project should be hidden by toggle, got %+v %v", hidden, err)
	}
	shown, err := env.projects.ToggleActive(context.Background(), 42, actor)
	if err != nil || !shown.Active {
		t.Fatalf("paid project should be shown again, got %+v %v", shown, err)
	}
	if project := loadProject(t, env.db, 42); !project.Active || project.PaymentStatus != constants.EntityPaymentCompleted {
		t.Fatalf("unexpected project state: %+v", project)
	}
}

// 场景 A：webhook 确认支付后项目上墙
func TestWebhookInvoicePaidActivatesLogo(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}

	if err := env.payments.AuthorizeWebhook("hook-secret"); err != nil {
		t.Fatalf("authorize webhook failed: %v", err)
	}
	result, err := env.payments.HandleWebhook(context.Background(), invoicePaidBody(link.PaymentID))
	if err != nil {
		t.Fatalf("handle webhook failed: %v", err)
	}
	if result.Ignored || result.Activation == nil || result.Activation.AlreadyCompleted || result.Activation.EntityMissing {
		t.Fatalf("unexpected result: %+v", result)
	}

	payment := loadPayment(t, env.db, link.PaymentID)
	if payment.Status != constants.PaymentStatusCompleted || payment.ChargeRef != "inv-1" || payment.CompletedAt == nil {
		t.Fatalf("payment not completed: %+v", payment)
	}
	project := loadProject(t, env.db, 42)
	if !project.Active || project.PaymentStatus != constants.EntityPaymentCompleted {
		t.Fatalf("project not activated: %+v", project)
	}
	if project.Position <= 0 {
		t.Fatalf("expected activation position to be set, got %d", project.Position)
	}
}

// 场景 B：重复推送同一 webhook 不产生重复副作用
func TestWebhookReplayIsIdempotent(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}
	body := invoicePaidBody(link.PaymentID)

	if _, err := env.payments.HandleWebhook(context.Background(), body); err != nil {
		t.Fatalf("first webhook failed: %v", err)
	}
	first := loadProject(t, env.db, 42)
	firstPayment := loadPayment(t, env.db, link.PaymentID)

	env.payments.now = func() time.Time { return time.Now().Add(time.Hour) }
	second, err := env.payments.HandleWebhook(context.Background(), body)
	if err != nil {
		t.Fatalf("replayed webhook failed: %v", err)
	}
	if second.Activation == nil || !second.Activation.AlreadyCompleted {
		t.Fatalf("expected already completed on replay, got %+v", second.Activation)
	}

	again := loadProject(t, env.db, 42)
	if again.Position != first.Position || !again.Active {
		t.Fatalf("replay changed project: before %+v after %+v", first, again)
	}
	againPayment := loadPayment(t, env.db, link.PaymentID)
	if !againPayment.CompletedAt.Equal(*firstPayment.CompletedAt) {
		t.Fatalf("replay changed completion time")
	}
	var completedLogs int64
	env.db.Model(&models.ActivityLog{}).Where("action = ?", constants.ActivityPaymentCompleted).Count(&completedLogs)
	if completedLogs != 1 {
		t.Fatalf("expected one completion log, got %d", completedLogs)
	}
}

// 场景 C：网关尚未找到发票时保持待支付
func TestPollNotFoundKeepsPending(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}

	result, err := env.payments.Poll(context.Background(), link.PaymentID)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if result != PollPending {
		t.Fatalf("expected pending, got %s", result)
	}
	if env.finder.calls != 1 {
		t.Fatalf("expected one provider call, got %d", env.finder.calls)
	}
	if payment := loadPayment(t, env.db, link.PaymentID); payment.Status != constants.PaymentStatusPending {
		t.Fatalf("payment should remain pending: %+v", payment)
	}
	if project := loadProject(t, env.db, 42); project.Active {
		t.Fatalf("project should remain inactive")
	}
}

func TestPollCallsProviderOutsideTransaction(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}

	var writeErr error
	env.finder.during = func() {
		// 网关调用期间另一连接可以写同一行
		writeErr = env.db.Model(&models.Payment{}).
			Where("payment_id = ?", link.PaymentID).
			Update("currency", "USD").Error
	}
	env.finder.invoice = &cryptobot.Invoice{Status: "paid", InvoiceID: []byte("12")}

	result, err := env.payments.Poll(context.Background(), link.PaymentID)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if writeErr != nil {
		t.Fatalf("write during provider call failed: %v", writeErr)
	}
	if result != PollCompleted {
		t.Fatalf("expected completed, got %s", result)
	}
	if project := loadProject(t, env.db, 42); !project.Active {
		t.Fatalf("project should be active after paid poll")
	}
}

func TestPollProviderFailureFailsClosed(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}
	env.finder.err = fmt.Errorf("%w: timeout", cryptobot.ErrRequestFailed)

	result, err := env.payments.Poll(context.Background(), link.PaymentID)
	if err != nil {
		t.Fatalf("provider failure must not surface: %v", err)
	}
	if result != PollPending {
		t.Fatalf("expected pending on provider failure, got %s", result)
	}
	if payment := loadPayment(t, env.db, link.PaymentID); payment.Status != constants.PaymentStatusPending {
		t.Fatalf("payment should remain pending")
	}
}

func TestPollUnknownPaymentDoesNotCallProvider(t *testing.T) {
	env := setupPaymentTest(t)
	result, err := env.payments.Poll(context.Background(), "logo_0000000000000000_1")
	if err != nil || result != PollPending {
		t.Fatalf("expected pending without error, got %s %v", result, err)
	}
	if env.finder.calls != 0 {
		t.Fatalf("provider should not be called for unknown payment")
	}
}

func TestPollPaidInvoiceActivatesReview(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 5, true)
	submitted, err := env.reviews.Submit(context.Background(), 5, SubmitReviewInput{
		AuthorName: "Alice",
		Rating:     4,
		Comment:    "<b>Solid</b> project",
	}, ActorContext{IP: "127.0.0.1"})
	if err != nil {
		t.Fatalf("submit review failed: %v", err)
	}
	if submitted.Review.Comment != "Solid project" {
		t.Fatalf("comment should be sanitized, got %q", submitted.Review.Comment)
	}
	if !strings.Contains(submitted.Link.URL, "paid_btn_name=viewProject") {
		t.Fatalf("unexpected paid button: %s", submitted.Link.URL)
	}

	env.finder.invoice = &cryptobot.Invoice{Status: "paid", InvoiceID: []byte(`"991"`)}
	result, err := env.payments.Poll(context.Background(), submitted.Link.PaymentID)
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if result != PollCompleted {
		t.Fatalf("expected completed, got %s", result)
	}
	var review models.Review
	if err := env.db.First(&review, submitted.Review.ID).Error; err != nil {
		t.Fatalf("load review failed: %v", err)
	}
	if !review.Approved || review.PaymentStatus != constants.EntityPaymentCompleted {
		t.Fatalf("review not approved: %+v", review)
	}
	if payment := loadPayment(t, env.db, submitted.Link.PaymentID); payment.ChargeRef != "991" {
		t.Fatalf("unexpected charge ref: %s", payment.ChargeRef)
	}

	env.finder.calls = 0
	if again, err := env.payments.Poll(context.Background(), submitted.Link.PaymentID); err != nil || again != PollCompleted {
		t.Fatalf("completed payment should short-circuit, got %s %v", again, err)
	}
	if env.finder.calls != 0 {
		t.Fatalf("provider should not be called for completed payment")
	}
}

// 场景 D（服务层部分）：密钥错误时拒绝且不写库
func TestAuthorizeWebhookRejectsWrongSecret(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	if _, err := env.payments.IssueLink(context.Background(), LogoRef(42)); err != nil {
		t.Fatalf("issue link failed: %v", err)
	}
	before := countRows(t, env.db, &models.ActivityLog{})

	for _, secret := range []string{"", "wrong", "HOOK-SECRET"} {
		if err := env.payments.AuthorizeWebhook(secret); !errors.Is(err, ErrWebhookForbidden) {
			t.Fatalf("expected forbidden for %q, got %v", secret, err)
		}
	}
	env.cfg.CryptoBot.WebhookSecret = ""
	if err := env.payments.AuthorizeWebhook(""); !errors.Is(err, ErrWebhookForbidden) {
		t.Fatalf("empty configured secret must reject, got %v", err)
	}
	if after := countRows(t, env.db, &models.ActivityLog{}); after != before {
		t.Fatalf("authorization failure must not write")
	}
}

func TestHandleWebhookIgnoresOtherUpdates(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}
	body := []byte(fmt.Sprintf(`{"update_type":"invoice_expired","payload":%q}`, link.PaymentID))
	result, err := env.payments.HandleWebhook(context.Background(), body)
	if err != nil {
		t.Fatalf("handle webhook failed: %v", err)
	}
	if !result.Ignored {
		t.Fatalf("expected ignored result")
	}
	if payment := loadPayment(t, env.db, link.PaymentID); payment.Status != constants.PaymentStatusPending {
		t.Fatalf("ignored update must not complete payment")
	}
}

func TestHandleWebhookErrors(t *testing.T) {
	env := setupPaymentTest(t)
	if _, err := env.payments.HandleWebhook(context.Background(), []byte("not json")); !errors.Is(err, ErrWebhookPayload) {
		t.Fatalf("expected payload error, got %v", err)
	}
	if _, err := env.payments.HandleWebhook(context.Background(), invoicePaidBody("logo_ffffffffffffffff_1")); !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected payment not found, got %v", err)
	}
}

func TestApplyCompletionEntityMissing(t *testing.T) {
	env := setupPaymentTest(t)
	amount, err := models.ParseMoney("1.00")
	if err != nil {
		t.Fatalf("parse amount failed: %v", err)
	}
	payment := &models.Payment{
		PaymentID: "logo_aaaaaaaaaaaaaaaa_1",
		Amount:    amount,
		Currency:  "USD",
		Type:      constants.PaymentTypeLogo,
		Status:    constants.PaymentStatusPending,
		EntityID:  404,
	}
	if err := env.db.Create(payment).Error; err != nil {
		t.Fatalf("create payment failed: %v", err)
	}

	result, err := env.payments.ApplyCompletion(context.Background(), payment.PaymentID, "inv-9")
	if err != nil {
		t.Fatalf("apply completion failed: %v", err)
	}
	if !result.EntityMissing || result.AlreadyCompleted {
		t.Fatalf("expected entity missing, got %+v", result)
	}
	if stored := loadPayment(t, env.db, payment.PaymentID); stored.Status != constants.PaymentStatusCompleted {
		t.Fatalf("payment should still be completed when entity is missing")
	}
}

func TestApplyCompletionRollsBackOnStorageFailure(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 42, false)
	link, err := env.payments.IssueLink(context.Background(), LogoRef(42))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}

	failure := errors.New("disk full")
	if err := env.db.Callback().Update().Before("gorm:update").Register("test:fail_projects", func(tx *gorm.DB) {
		if tx.Statement.Table == "projects" {
			_ = tx.AddError(failure)
		}
	}); err != nil {
		t.Fatalf("register callback failed: %v", err)
	}

	if _, err := env.payments.ApplyCompletion(context.Background(), link.PaymentID, "inv-1"); !errors.Is(err, ErrPaymentUpdateFailed) {
		t.Fatalf("expected update failure, got %v", err)
	}
	if payment := loadPayment(t, env.db, link.PaymentID); payment.Status != constants.PaymentStatusPending || payment.CompletedAt != nil {
		t.Fatalf("payment must roll back to pending: %+v", payment)
	}
	if project := loadProject(t, env.db, 42); project.Active {
		t.Fatalf("project must stay inactive after rollback")
	}
}

func TestReissueLinkReusesPendingPayment(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 3, false)
	first, err := env.payments.IssueLink(context.Background(), LogoRef(3))
	if err != nil {
		t.Fatalf("issue link failed: %v", err)
	}
	again, err := env.payments.ReissueLink(context.Background(), LogoRef(3))
	if err != nil {
		t.Fatalf("reissue failed: %v", err)
	}
	if again.PaymentID != first.PaymentID || again.URL != first.URL {
		t.Fatalf("expected same link, got %s vs %s", again.PaymentID, first.PaymentID)
	}
	if total := countRows(t, env.db, &models.Payment{}); total != 1 {
		t.Fatalf("expected single payment, got %d", total)
	}
}

func TestEntityKindParsing(t *testing.T) {
	if ParseEntityKind("logo_abc_1") != EntityLogo || ParseEntityKind("review_abc_1") != EntityReview {
		t.Fatalf("unexpected kind parsing")
	}
	if ParseEntityKind("order_abc_1") != EntityUnknown || ParseEntityKind("logo") != EntityUnknown {
		t.Fatalf("unknown prefixes must not parse")
	}
	id, err := newPaymentID(EntityReview, time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("generate payment id failed: %v", err)
	}
	parts := strings.Split(id, "_")
	if len(parts) != 3 || parts[0] != "review" || len(parts[1]) != 16 || parts[2] != "1700000000" {
		t.Fatalf("unexpected payment id format: %s", id)
	}
	if _, err := newPaymentID(EntityUnknown, time.Now()); !errors.Is(err, ErrEntityKindInvalid) {
		t.Fatalf("expected kind error, got %v", err)
	}
}

func TestReconcilePendingCompletesStalePayments(t *testing.T) {
	env := setupPaymentTest(t)
	seedProject(t, env.db, 1, false)
	seedProject(t, env.db, 2, false)
	stale, err := env.payments.IssueLink(context.Background(), LogoRef(1))
	if err != nil {
		t.Fatalf("issue stale link failed: %v", err)
	}
	fresh, err := env.payments.IssueLink(context.Background(), LogoRef(2))
	if err != nil {
		t.Fatalf("issue fresh link failed: %v", err)
	}
	old := time.Now().Add(-time.Hour)
	if err := env.db.Model(&models.Payment{}).Where("payment_id = ?", stale.PaymentID).Update("created_at", old).Error; err != nil {
		t.Fatalf("age payment failed: %v", err)
	}
	env.finder.invoice = &cryptobot.Invoice{Status: "paid", InvoiceID: []byte("77")}

	completed, err := env.payments.ReconcilePending(context.Background(), 10*time.Minute, 50)
	if err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if completed != 1 || env.finder.calls != 1 {
		t.Fatalf("expected only stale payment checked, completed=%d calls=%d", completed, env.finder.calls)
	}
	if project := loadProject(t, env.db, 1); !project.Active {
		t.Fatalf("stale project should be activated")
	}
	if payment := loadPayment(t, env.db, fresh.PaymentID); payment.Status != constants.PaymentStatusPending {
		t.Fatalf("fresh payment should not be touched")
	}
}
