package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/queue"

	"gorm.io/gorm"
)

// ActivationResult 支付完成处理结果
type ActivationResult struct {
	PaymentID        string
	Entity           EntityRef
	AlreadyCompleted bool
	EntityMissing    bool
}

// ApplyCompletion 在单个事务内将支付置为完成并激活对应实体
// 重复调用是幂等的：已完成的支付直接返回 AlreadyCompleted
func (s *PaymentService) ApplyCompletion(ctx context.Context, paymentID, chargeRef string) (*ActivationResult, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, ErrPaymentNotFound
	}
	log := paymentLogger("payment_id", paymentID)
	now := s.now()
	result := &ActivationResult{PaymentID: paymentID}

	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paymentRepo := s.paymentRepo.WithTx(tx)
		payment, err := paymentRepo.GetByPaymentIDForUpdate(paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return ErrPaymentNotFound
		}
		result.Entity = entityRefFromPayment(payment)
		if payment.Status == constants.PaymentStatusCompleted {
			result.AlreadyCompleted = true
			return nil
		}

		affected, err := paymentRepo.MarkCompleted(paymentID, strings.TrimSpace(chargeRef), now)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentUpdateFailed, err)
		}
		if affected == 0 {
			result.AlreadyCompleted = true
			return nil
		}

		var rows int64
		switch result.Entity.Kind {
		case EntityLogo:
			rows, err = s.projectRepo.WithTx(tx).ActivateByPayment(result.Entity.ID, paymentID, now.Unix())
		case EntityReview:
			rows, err = s.reviewRepo.WithTx(tx).ApproveByPayment(result.Entity.ID, paymentID)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentUpdateFailed, err)
		}
		result.EntityMissing = rows == 0
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			log.Warnw("payment_activation_payment_not_found")
		} else {
			log.Errorw("payment_activation_failed", "error", err)
		}
		return nil, err
	}

	if result.AlreadyCompleted {
		log.Debugw("payment_activation_already_completed", "entity", result.Entity.String())
		return result, nil
	}
	if result.EntityMissing {
		log.Warnw("payment_activation_entity_missing",
			"entity", result.Entity.String(),
			"charge_ref", chargeRef,
		)
	} else {
		log.Infow("payment_activation_completed",
			"entity", result.Entity.String(),
			"charge_ref", chargeRef,
		)
	}
	s.afterActivation(ctx, result)
	return result, nil
}

// afterActivation 事务提交后的附属操作，失败只记录日志
func (s *PaymentService) afterActivation(ctx context.Context, result *ActivationResult) {
	log := paymentLogger("payment_id", result.PaymentID)
	if !result.EntityMissing {
		if err := cache.InvalidateWall(ctx); err != nil {
			log.Warnw("payment_wall_cache_invalidate_failed", "error", err)
		}
		if result.Entity.Kind == EntityLogo && s.queueClient != nil && s.queueClient.Enabled() {
			if err := s.queueClient.EnqueueSitemapGenerate(queue.SitemapGeneratePayload{Reason: constants.ActivityPaymentCompleted}); err != nil {
				log.Warnw("payment_enqueue_sitemap_failed", "error", err)
			}
		}
	}
	s.activitySvc.Record(ActorContext{}, constants.ActivityPaymentCompleted, constants.EntityTypePayment, result.PaymentID)
}

func entityRefFromPayment(payment *models.Payment) EntityRef {
	kind := EntityKindFromType(payment.Type)
	if kind == EntityUnknown {
		kind = ParseEntityKind(payment.PaymentID)
	}
	return EntityRef{Kind: kind, ID: payment.EntityID}
}
