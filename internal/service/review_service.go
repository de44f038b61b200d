package service

import (
	"context"
	"unicode/utf8"

	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/repository"

	"gorm.io/gorm"
)

// ReviewService 评论服务
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	projectRepo repository.ProjectRepository
	paymentRepo repository.PaymentRepository
	paymentSvc  *PaymentService
	activitySvc *ActivityService
}

// NewReviewService 创建评论服务
func NewReviewService(reviewRepo repository.ReviewRepository, projectRepo repository.ProjectRepository, paymentRepo repository.PaymentRepository, paymentSvc *PaymentService, activitySvc *ActivityService) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		projectRepo: projectRepo,
		paymentRepo: paymentRepo,
		paymentSvc:  paymentSvc,
		activitySvc: activitySvc,
	}
}

// SubmitReviewInput 提交评论请求
type SubmitReviewInput struct {
	AuthorName string
	Rating     int
	Comment    string
}

// SubmitReviewResult 提交评论结果
type SubmitReviewResult struct {
	Review *models.Review
	Link   *IssuedLink
}

// Submit 为已激活项目创建待支付评论
func (s *ReviewService) Submit(ctx context.Context, projectID uint, input SubmitReviewInput, actor ActorContext) (*SubmitReviewResult, error) {
	author := sanitizeText(input.AuthorName, 0)
	if !runeLenBetween(author, 2, 100) {
		return nil, ErrAuthorInvalid
	}
	if input.Rating < constants.ReviewRatingMin || input.Rating > constants.ReviewRatingMax {
		return nil, ErrRatingInvalid
	}
	comment := sanitizeText(input.Comment, 0)
	if utf8.RuneCountInString(comment) > constants.ReviewCommentMaxLen {
		return nil, ErrCommentTooLong
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if !project.Active {
		return nil, ErrProjectInactive
	}

	review := &models.Review{
		ProjectID:     project.ID,
		AuthorName:    author,
		Rating:        input.Rating,
		Comment:       comment,
		Approved:      false,
		PaymentStatus: constants.EntityPaymentNone,
	}
	quote, err := s.paymentSvc.Quote(EntityReview)
	if err != nil {
		return nil, err
	}
	var link *IssuedLink
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.reviewRepo.WithTx(tx).Create(review); err != nil {
			return err
		}
		issued, err := s.paymentSvc.IssueLinkTx(tx, ReviewRef(review.ID), quote)
		if err != nil {
			return err
		}
		link = issued
		return nil
	})
	if err != nil {
		return nil, err
	}

	review.PaymentID = link.PaymentID
	review.PaymentStatus = constants.EntityPaymentPending
	s.paymentSvc.AfterIssue(link)
	s.activitySvc.Record(actor, constants.ActivityAddReview, constants.EntityTypeReview, review.ID)
	return &SubmitReviewResult{Review: review, Link: link}, nil
}

// ListAdmin 后台评论列表
func (s *ReviewService) ListAdmin(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.ListAdmin(filter)
}

// SetApproved 后台审核评论
func (s *ReviewService) SetApproved(ctx context.Context, id uint, approved bool, actor ActorContext) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	if err := s.reviewRepo.SetApproved(id, approved); err != nil {
		return nil, err
	}
	review.Approved = approved
	s.invalidateWall(ctx)
	action := constants.ActivityApproveReview
	if !approved {
		action = constants.ActivityDisapproveReview
	}
	s.activitySvc.Record(actor, action, constants.EntityTypeReview, id)
	return review, nil
}

// Delete 删除评论及其支付记录
func (s *ReviewService) Delete(ctx context.Context, id uint, actor ActorContext) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).DeleteByEntity(constants.PaymentTypeReview, []uint{id}); err != nil {
			return err
		}
		return s.reviewRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}
	s.invalidateWall(ctx)
	s.activitySvc.Record(actor, constants.ActivityDeleteReview, constants.EntityTypeReview, id)
	return nil
}

func (s *ReviewService) invalidateWall(ctx context.Context) {
	if err := cache.InvalidateWall(ctx); err != nil {
		logger.Warnw("wall_cache_invalidate_failed", "error", err)
	}
}
