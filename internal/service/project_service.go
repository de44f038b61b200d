package service

import (
	"context"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/constants"
	"github.com/cryptologowall/internal/logger"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/queue"
	"github.com/cryptologowall/internal/repository"

	"gorm.io/gorm"
)

// ProjectService 徽标项目服务
type ProjectService struct {
	projectRepo repository.ProjectRepository
	reviewRepo  repository.ReviewRepository
	paymentRepo repository.PaymentRepository
	paymentSvc  *PaymentService
	uploadSvc   *UploadService
	activitySvc *ActivityService
	queueClient *queue.Client
}

// NewProjectService 创建项目服务
func NewProjectService(projectRepo repository.ProjectRepository, reviewRepo repository.ReviewRepository, paymentRepo repository.PaymentRepository, paymentSvc *PaymentService, uploadSvc *UploadService, activitySvc *ActivityService, queueClient *queue.Client) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		reviewRepo:  reviewRepo,
		paymentRepo: paymentRepo,
		paymentSvc:  paymentSvc,
		uploadSvc:   uploadSvc,
		activitySvc: activitySvc,
		queueClient: queueClient,
	}
}

// SubmitLogoInput 提交徽标请求
type SubmitLogoInput struct {
	Name     string
	Website  string
	Telegram string
	Logo     *multipart.FileHeader
}

// SubmitLogoResult 提交徽标结果
type SubmitLogoResult struct {
	Project *models.Project
	Link    *IssuedLink
}

// WallQuery 徽标墙查询参数
type WallQuery struct {
	Limit  int
	Offset int
	Sort   string
}

// WallLogo 徽标墙条目
type WallLogo struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Website       string    `json:"website"`
	LogoPath      string    `json:"logo_path"`
	Position      int64     `json:"position"`
	CreatedAt     time.Time `json:"created_at"`
	AverageRating float64   `json:"average_rating"`
	ReviewCount   int64     `json:"review_count"`
}

// WallListing 徽标墙列表
type WallListing struct {
	Count int        `json:"count"`
	Logos []WallLogo `json:"logos"`
}

// ProjectDetail 项目详情
type ProjectDetail struct {
	Project       *models.Project `json:"project"`
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"average_rating"`
	ReviewCount   int64           `json:"review_count"`
	PaymentStatus string          `json:"payment_status"`
	Link          *IssuedLink     `json:"payment,omitempty"`
}

// SubmitLogo 保存徽标并创建待支付项目，项目与支付记录在同一事务内写入
func (s *ProjectService) SubmitLogo(ctx context.Context, input SubmitLogoInput, actor ActorContext) (*SubmitLogoResult, error) {
	name := sanitizeText(input.Name, 0)
	if !runeLenBetween(name, 2, 100) {
		return nil, ErrNameInvalid
	}
	website, ok := normalizeWebsite(input.Website)
	if !ok {
		return nil, ErrWebsiteInvalid
	}
	telegram, ok := normalizeTelegram(input.Telegram)
	if !ok {
		return nil, ErrTelegramInvalid
	}
	if input.Logo == nil {
		return nil, ErrLogoRequired
	}

	quote, err := s.paymentSvc.Quote(EntityLogo)
	if err != nil {
		return nil, err
	}
	logoPath, err := s.uploadSvc.SaveLogo(input.Logo)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:          name,
		Website:       website,
		Telegram:      telegram,
		LogoPath:      logoPath,
		Active:        false,
		PaymentStatus: constants.EntityPaymentNone,
	}
	var link *IssuedLink
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.projectRepo.WithTx(tx).Create(project); err != nil {
			return err
		}
		issued, err := s.paymentSvc.IssueLinkTx(tx, LogoRef(project.ID), quote)
		if err != nil {
			return err
		}
		link = issued
		return nil
	})
	if err != nil {
		s.uploadSvc.Remove(logoPath)
		return nil, err
	}

	project.PaymentID = link.PaymentID
	project.PaymentStatus = constants.EntityPaymentPending
	s.paymentSvc.AfterIssue(link)
	s.activitySvc.Record(actor, constants.ActivityAddLogo, constants.EntityTypeProject, project.ID)
	return &SubmitLogoResult{Project: project, Link: link}, nil
}

// ListWall 获取徽标墙（仅激活项目），结果按查询参数缓存
func (s *ProjectService) ListWall(ctx context.Context, query WallQuery) (*WallListing, error) {
	query = normalizeWallQuery(query)
	key := cache.WallKey(query.Sort, query.Limit, query.Offset)

	var cached WallListing
	if hit, err := cache.GetJSON(ctx, key, &cached); err != nil {
		logger.Warnw("wall_cache_read_failed", "key", key, "error", err)
	} else if hit {
		return &cached, nil
	}

	entries, err := s.projectRepo.ListWall(repository.WallListFilter{
		Limit:  query.Limit,
		Offset: query.Offset,
		Sort:   query.Sort,
	})
	if err != nil {
		return nil, err
	}
	listing := &WallListing{Logos: make([]WallLogo, 0, len(entries))}
	for _, entry := range entries {
		listing.Logos = append(listing.Logos, WallLogo{
			ID:            entry.ID,
			Name:          entry.Name,
			Website:       entry.Website,
			LogoPath:      entry.LogoPath,
			Position:      entry.Position,
			CreatedAt:     entry.CreatedAt,
			AverageRating: roundRating(entry.AverageRating),
			ReviewCount:   entry.ReviewCount,
		})
	}
	listing.Count = len(listing.Logos)

	if err := cache.SetJSON(ctx, key, listing, cache.WallTTL); err != nil {
		logger.Warnw("wall_cache_write_failed", "key", key, "error", err)
	}
	return listing, nil
}

// Detail 获取项目详情；未激活且待支付的项目会先主动查单一次
func (s *ProjectService) Detail(ctx context.Context, id uint) (*ProjectDetail, error) {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	if !project.Active && project.PaymentStatus == constants.EntityPaymentPending && project.PaymentID != "" {
		result, pollErr := s.paymentSvc.Poll(ctx, project.PaymentID)
		if pollErr != nil {
			logger.Warnw("project_detail_poll_failed", "project_id", id, "payment_id", project.PaymentID, "error", pollErr)
		}
		if result == PollCompleted {
			if refreshed, err := s.projectRepo.GetByID(id); err == nil && refreshed != nil {
				project = refreshed
			}
		}
	}

	reviews, err := s.reviewRepo.ListApprovedByProject(project.ID)
	if err != nil {
		return nil, err
	}
	stats, err := s.reviewRepo.StatsByProject(project.ID)
	if err != nil {
		return nil, err
	}
	detail := &ProjectDetail{
		Project:       project,
		Reviews:       reviews,
		AverageRating: roundRating(stats.AverageRating),
		ReviewCount:   stats.ReviewCount,
		PaymentStatus: project.PaymentStatus,
	}
	if !project.Active && project.PaymentStatus != constants.EntityPaymentCompleted {
		link, err := s.paymentSvc.ReissueLink(ctx, LogoRef(project.ID))
		if err != nil {
			logger.Warnw("project_detail_reissue_failed", "project_id", id, "error", err)
		} else {
			detail.Link = link
			detail.PaymentStatus = constants.EntityPaymentPending
		}
	}
	return detail, nil
}

// GetActive 获取已激活项目
func (s *ProjectService) GetActive(id uint) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if !project.Active {
		return nil, ErrProjectInactive
	}
	return project, nil
}

// ListActive 获取全部已激活项目（站点地图使用）
func (s *ProjectService) ListActive() ([]models.Project, error) {
	return s.projectRepo.ListActive()
}

// ListAdmin 后台项目列表
func (s *ProjectService) ListAdmin(filter repository.ProjectListFilter) ([]models.Project, int64, error) {
	return s.projectRepo.ListAdmin(filter)
}

// ToggleActive 后台切换项目展示状态，只有支付完成的项目可以重新上墙
func (s *ProjectService) ToggleActive(ctx context.Context, id uint, actor ActorContext) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if !project.Active && project.PaymentStatus != constants.EntityPaymentCompleted {
		return nil, ErrEntityNotPaid
	}
	project.Active = !project.Active
	if err := s.projectRepo.SetActive(id, project.Active); err != nil {
		return nil, err
	}
	s.afterWallChange(ctx, constants.ActivityToggleLogo)
	s.activitySvc.Record(actor, constants.ActivityToggleLogo, constants.EntityTypeProject, id)
	return project, nil
}

// Delete 删除项目及其评论与支付记录
func (s *ProjectService) Delete(ctx context.Context, id uint, actor ActorContext) error {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrProjectNotFound
	}
	err = models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviewRepo := s.reviewRepo.WithTx(tx)
		paymentRepo := s.paymentRepo.WithTx(tx)
		reviewIDs, err := reviewRepo.ListIDsByProject(id)
		if err != nil {
			return err
		}
		if err := paymentRepo.DeleteByEntity(constants.PaymentTypeReview, reviewIDs); err != nil {
			return err
		}
		if err := reviewRepo.DeleteByProject(id); err != nil {
			return err
		}
		if err := paymentRepo.DeleteByEntity(constants.PaymentTypeLogo, []uint{id}); err != nil {
			return err
		}
		return s.projectRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}
	s.uploadSvc.Remove(project.LogoPath)
	s.afterWallChange(ctx, constants.ActivityDeleteLogo)
	s.activitySvc.Record(actor, constants.ActivityDeleteLogo, constants.EntityTypeProject, id)
	return nil
}

func (s *ProjectService) afterWallChange(ctx context.Context, reason string) {
	if err := cache.InvalidateWall(ctx); err != nil {
		logger.Warnw("wall_cache_invalidate_failed", "reason", reason, "error", err)
	}
	if s.queueClient == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueSitemapGenerate(queue.SitemapGeneratePayload{Reason: reason}); err != nil {
		logger.Warnw("sitemap_enqueue_failed", "reason", reason, "error", err)
	}
}

func normalizeWallQuery(query WallQuery) WallQuery {
	if query.Limit <= 0 {
		query.Limit = constants.WallDefaultLimit
	}
	if query.Limit > constants.WallMaxLimit {
		query.Limit = constants.WallMaxLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	switch strings.ToLower(strings.TrimSpace(query.Sort)) {
	case constants.WallSortCreated:
		query.Sort = constants.WallSortCreated
	case constants.WallSortName:
		query.Sort = constants.WallSortName
	default:
		query.Sort = constants.WallSortPosition
	}
	return query
}

func roundRating(value float64) float64 {
	return math.Round(value*10) / 10
}
