package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cryptologowall/internal/config"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/payment/cryptobot"
	"github.com/cryptologowall/internal/queue"
	"github.com/cryptologowall/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPaymentCurrency = "USD"

// InvoiceFinder 查询已支付发票的支付网关
type InvoiceFinder interface {
	FindPaidInvoice(ctx context.Context, paymentID string) (*cryptobot.Invoice, error)
}

// PaymentService 支付服务
type PaymentService struct {
	cfg         *config.Config
	paymentRepo repository.PaymentRepository
	projectRepo repository.ProjectRepository
	reviewRepo  repository.ReviewRepository
	settingSvc  *SettingService
	activitySvc *ActivityService
	queueClient *queue.Client
	finder      InvoiceFinder
	now         func() time.Time
}

// NewPaymentService 创建支付服务
func NewPaymentService(cfg *config.Config, paymentRepo repository.PaymentRepository, projectRepo repository.ProjectRepository, reviewRepo repository.ReviewRepository, settingSvc *SettingService, activitySvc *ActivityService, queueClient *queue.Client, finder InvoiceFinder) *PaymentService {
	return &PaymentService{
		cfg:         cfg,
		paymentRepo: paymentRepo,
		projectRepo: projectRepo,
		reviewRepo:  reviewRepo,
		settingSvc:  settingSvc,
		activitySvc: activitySvc,
		queueClient: queueClient,
		finder:      finder,
		now:         time.Now,
	}
}

// IssuedLink 签发的支付链接
type IssuedLink struct {
	PaymentID string       `json:"payment_id"`
	URL       string       `json:"pay_url"`
	Amount    models.Money `json:"amount"`
	Currency  string       `json:"currency"`
	Entity    EntityRef    `json:"-"`
}

func paymentLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// LinkQuote 签发支付链接所需的报价信息，需在事务开始前读取
type LinkQuote struct {
	Amount   models.Money
	Currency string
	SiteName string
}

// Quote 读取实体类型对应的价格与站点名称
func (s *PaymentService) Quote(kind EntityKind) (LinkQuote, error) {
	amount, err := s.settingSvc.PriceFor(kind)
	if err != nil {
		return LinkQuote{}, err
	}
	general, err := s.settingSvc.GetGeneral()
	if err != nil {
		return LinkQuote{}, err
	}
	return LinkQuote{Amount: amount, Currency: s.currency(), SiteName: general.SiteName}, nil
}

// IssueLink 为待支付实体创建支付记录并返回收款链接
func (s *PaymentService) IssueLink(ctx context.Context, ref EntityRef) (*IssuedLink, error) {
	quote, err := s.Quote(ref.Kind)
	if err != nil {
		return nil, err
	}
	var link *IssuedLink
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		issued, err := s.IssueLinkTx(tx, ref, quote)
		if err != nil {
			return err
		}
		link = issued
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.AfterIssue(link)
	return link, nil
}

// IssueLinkTx 在调用方事务内签发支付链接，提交后需调用 AfterIssue
func (s *PaymentService) IssueLinkTx(tx *gorm.DB, ref EntityRef, quote LinkQuote) (*IssuedLink, error) {
	if !ref.Valid() {
		return nil, ErrEntityKindInvalid
	}
	target, err := s.loadPayable(tx, ref)
	if err != nil {
		return nil, err
	}
	if !target.pending {
		return nil, ErrEntityNotPending
	}

	now := s.now()
	paymentID, err := newPaymentID(ref.Kind, now)
	if err != nil {
		return nil, err
	}
	payment := &models.Payment{
		PaymentID: paymentID,
		Amount:    quote.Amount,
		Currency:  quote.Currency,
		Type:      ref.Kind.String(),
		Status:    constants.PaymentStatusPending,
		EntityID:  ref.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
		return nil, err
	}
	switch ref.Kind {
	case EntityLogo:
		err = s.projectRepo.WithTx(tx).SetPayment(ref.ID, paymentID, constants.EntityPaymentPending)
	case EntityReview:
		err = s.reviewRepo.WithTx(tx).SetPayment(ref.ID, paymentID, constants.EntityPaymentPending)
	}
	if err != nil {
		return nil, err
	}
	return s.buildLink(payment, ref, target, quote.SiteName), nil
}

// AfterIssue 签发成功后推送一次延迟查单任务
func (s *PaymentService) AfterIssue(link *IssuedLink) {
	if link == nil {
		return
	}
	paymentLogger("payment_id", link.PaymentID, "entity", link.Entity.String()).Infow("payment_link_issued",
		"amount", link.Amount.String(),
		"currency", link.Currency,
	)
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueuePaymentCheck(queue.PaymentCheckPayload{PaymentID: link.PaymentID}, s.checkDelay()); err != nil {
		paymentLogger("payment_id", link.PaymentID).Warnw("payment_enqueue_check_failed", "error", err)
	}
}

// ReissueLink 返回实体当前待支付记录的收款链接，不存在时重新签发
func (s *PaymentService) ReissueLink(ctx context.Context, ref EntityRef) (*IssuedLink, error) {
	if !ref.Valid() {
		return nil, ErrEntityKindInvalid
	}
	target, err := s.loadPayable(models.DB.WithContext(ctx), ref)
	if err != nil {
		return nil, err
	}
	if !target.pending {
		return nil, ErrEntityNotPending
	}
	if target.paymentID != "" {
		payment, err := s.paymentRepo.GetByPaymentID(target.paymentID)
		if err != nil {
			return nil, err
		}
		if payment != nil && payment.Status == constants.PaymentStatusPending {
			general, err := s.settingSvc.GetGeneral()
			if err != nil {
				return nil, err
			}
			return s.buildLink(payment, ref, target, general.SiteName), nil
		}
	}
	return s.IssueLink(ctx, ref)
}

// ListPayments 后台支付列表
func (s *PaymentService) ListPayments(filter repository.PaymentListFilter) ([]models.Payment, int64, error) {
	return s.paymentRepo.ListAdmin(filter)
}

// GetPayment 按支付标识查询
func (s *PaymentService) GetPayment(paymentID string) (*models.Payment, error) {
	payment, err := s.paymentRepo.GetByPaymentID(strings.TrimSpace(paymentID))
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}
	return payment, nil
}

// payableTarget 可付费实体的快照
type payableTarget struct {
	label     string
	projectID uint
	paymentID string
	pending   bool
}

func (s *PaymentService) loadPayable(db *gorm.DB, ref EntityRef) (*payableTarget, error) {
	switch ref.Kind {
	case EntityLogo:
		project, err := s.projectRepo.WithTx(db).GetByID(ref.ID)
		if err != nil {
			return nil, err
		}
		if project == nil {
			return nil, ErrProjectNotFound
		}
		return &payableTarget{
			label:     project.Name,
			projectID: project.ID,
			paymentID: project.PaymentID,
			pending:   !project.Active && project.PaymentStatus != constants.EntityPaymentCompleted,
		}, nil
	case EntityReview:
		review, err := s.reviewRepo.WithTx(db).GetByID(ref.ID)
		if err != nil {
			return nil, err
		}
		if review == nil {
			return nil, ErrReviewNotFound
		}
		label := ""
		project, err := s.projectRepo.WithTx(db).GetByID(review.ProjectID)
		if err != nil {
			return nil, err
		}
		if project != nil {
			label = project.Name
		}
		return &payableTarget{
			label:     label,
			projectID: review.ProjectID,
			paymentID: review.PaymentID,
			pending:   !review.Approved && review.PaymentStatus != constants.EntityPaymentCompleted,
		}, nil
	default:
		return nil, ErrEntityKindInvalid
	}
}

func (s *PaymentService) buildLink(payment *models.Payment, ref EntityRef, target *payableTarget, siteName string) *IssuedLink {
	description := fmt.Sprintf("Add logo for %s on %s", target.label, siteName)
	button := constants.CryptoBotPaidButtonLogo
	if ref.Kind == EntityReview {
		description = fmt.Sprintf("Review for %s on %s", target.label, siteName)
		button = constants.CryptoBotPaidButtonReview
	}
	url := cryptobot.BuildPayURL(s.botUsername(), cryptobot.PayLinkInput{
		Amount:         payment.Amount.String(),
		Currency:       payment.Currency,
		Description:    description,
		Payload:        payment.PaymentID,
		PaidButtonName: button,
		PaidButtonURL:  s.projectURL(target.projectID),
	})
	return &IssuedLink{
		PaymentID: payment.PaymentID,
		URL:       url,
		Amount:    payment.Amount,
		Currency:  payment.Currency,
		Entity:    ref,
	}
}

func (s *PaymentService) currency() string {
	if s.cfg != nil {
		if currency := strings.ToUpper(strings.TrimSpace(s.cfg.CryptoBot.Currency)); currency != "" {
			return currency
		}
	}
	return defaultPaymentCurrency
}

func (s *PaymentService) botUsername() string {
	if s.cfg == nil {
		return ""
	}
	return s.cfg.CryptoBot.BotUsername
}

func (s *PaymentService) projectURL(projectID uint) string {
	base := ""
	if s.cfg != nil {
		base = strings.TrimRight(strings.TrimSpace(s.cfg.Site.URL), "/")
	}
	return base + "/projects/" + strconv.FormatUint(uint64(projectID), 10)
}

func (s *PaymentService) checkDelay() time.Duration {
	if s.cfg == nil || s.cfg.CryptoBot.CheckDelaySeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(s.cfg.CryptoBot.CheckDelaySeconds) * time.Second
}

func (s *PaymentService) webhookSecret() string {
	if s.cfg == nil {
		return ""
	}
	return s.cfg.CryptoBot.WebhookSecret
}
