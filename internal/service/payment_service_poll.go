package service

import (
	"context"
	"strings"
	"time"

	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/payment/cryptobot"
)

// PollResult 查单结果
type PollResult int

const (
	// PollPending 未确认支付（包括网关不可用）
	PollPending PollResult = iota
	// PollCompleted 支付已完成
	PollCompleted
)

func (r PollResult) String() string {
	if r == PollCompleted {
		return constants.PaymentStatusCompleted
	}
	return constants.PaymentStatusPending
}

// Poll 主动向 CryptoBot 查询支付状态
// 网关调用在事务之外进行，任何网关异常都按未支付处理；只有确认已支付时才开启事务激活实体
func (s *PaymentService) Poll(ctx context.Context, paymentID string) (PollResult, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return PollPending, nil
	}
	log := paymentLogger("payment_id", paymentID)

	payment, err := s.paymentRepo.GetByPaymentID(paymentID)
	if err != nil {
		return PollPending, err
	}
	if payment == nil {
		log.Debugw("payment_poll_unknown")
		return PollPending, nil
	}
	if payment.Status == constants.PaymentStatusCompleted {
		return PollCompleted, nil
	}
	if s.finder == nil {
		log.Warnw("payment_poll_provider_missing")
		return PollPending, nil
	}

	invoice, err := s.finder.FindPaidInvoice(ctx, paymentID)
	if err != nil {
		log.Warnw("payment_poll_provider_failed", "error", err)
		return PollPending, nil
	}
	if invoice == nil {
		return PollPending, nil
	}

	if _, err := s.ApplyCompletion(ctx, paymentID, invoice.Ref()); err != nil {
		return PollPending, err
	}
	return PollCompleted, nil
}

// PollResultView 后台查单返回
type PollResultView struct {
	Status  string          `json:"status"`
	Payment *models.Payment `json:"payment"`
}

// WebhookResult webhook 处理结果
type WebhookResult struct {
	Ignored    bool
	UpdateType string
	Activation *ActivationResult
}

// AuthorizeWebhook 校验 webhook 共享密钥，必须在读取请求体之前调用
func (s *PaymentService) AuthorizeWebhook(provided string) error {
	if !cryptobot.VerifySecret(s.webhookSecret(), provided) {
		paymentLogger().Warnw("payment_webhook_secret_mismatch", "secret_configured", s.webhookSecret() != "")
		return ErrWebhookForbidden
	}
	return nil
}

// HandleWebhook 处理已通过密钥校验的 webhook 请求体
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte) (*WebhookResult, error) {
	update, err := cryptobot.ParseWebhook(body)
	if err != nil {
		paymentLogger().Warnw("payment_webhook_payload_invalid", "error", err)
		return nil, ErrWebhookPayload
	}
	log := paymentLogger("payment_id", update.PaymentID, "update_type", update.UpdateType)
	if update.UpdateType != cryptobot.UpdateInvoicePaid {
		log.Infow("payment_webhook_ignored")
		return &WebhookResult{Ignored: true, UpdateType: update.UpdateType}, nil
	}

	log.Infow("payment_webhook_received", "invoice_id", update.InvoiceID)
	activation, err := s.ApplyCompletion(ctx, update.PaymentID, update.InvoiceID)
	if err != nil {
		return nil, err
	}
	return &WebhookResult{UpdateType: update.UpdateType, Activation: activation}, nil
}

// CheckPayment 后台手动查单，返回最新支付记录
func (s *PaymentService) CheckPayment(ctx context.Context, paymentID string, actor ActorContext) (*PollResultView, error) {
	payment, err := s.GetPayment(paymentID)
	if err != nil {
		return nil, err
	}
	result, err := s.Poll(ctx, payment.PaymentID)
	if err != nil {
		return nil, err
	}
	s.activitySvc.Record(actor, constants.ActivityManualPaymentCheck, constants.EntityTypePayment, payment.PaymentID)
	latest, err := s.GetPayment(payment.PaymentID)
	if err != nil {
		return nil, err
	}
	return &PollResultView{Status: result.String(), Payment: latest}, nil
}

// ReconcilePending 对创建超过 olderThan 仍待支付的记录逐一查单，返回本轮确认完成的数量
func (s *PaymentService) ReconcilePending(ctx context.Context, olderThan time.Duration, limit int) (int, error) {
	payments, err := s.paymentRepo.ListPendingCreatedBefore(s.now().Add(-olderThan), limit)
	if err != nil {
		return 0, err
	}
	completed := 0
	for _, payment := range payments {
		if ctx.Err() != nil {
			return completed, ctx.Err()
		}
		result, err := s.Poll(ctx, payment.PaymentID)
		if err != nil {
			paymentLogger("payment_id", payment.PaymentID).Warnw("payment_reconcile_poll_failed", "error", err)
			continue
		}
		if result == PollCompleted {
			completed++
		}
	}
	if completed > 0 {
		paymentLogger().Infow("payment_reconcile_completed", "checked", len(payments), "completed", completed)
	}
	return completed, nil
}
