package service

import (
	"context"
	"time"

	"github.com/cryptologowall/internal/cache"
	"github.com/cryptologowall/internal/models"
	"github.com/cryptologowall/internal/repository"
)

const (
	dashboardCacheKey      = "dashboard:overview"
	dashboardCacheTTL      = 30 * time.Second
	dashboardLatestLogos   = 5
	dashboardLatestReviews = 5
	dashboardLatestEvents  = 10
)

// DashboardService 仪表盘服务
// 说明：聚合后台首页的徽标、评论统计与最近动态。
type DashboardService struct {
	projectRepo  repository.ProjectRepository
	reviewRepo   repository.ReviewRepository
	activityRepo repository.ActivityLogRepository
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(projectRepo repository.ProjectRepository, reviewRepo repository.ReviewRepository, activityRepo repository.ActivityLogRepository) *DashboardService {
	return &DashboardService{projectRepo: projectRepo, reviewRepo: reviewRepo, activityRepo: activityRepo}
}

// DashboardOverview 仪表盘总览
type DashboardOverview struct {
	Logos          repository.ProjectCounts   `json:"logos"`
	Reviews        repository.ReviewCounts    `json:"reviews"`
	LatestLogos    []models.Project           `json:"latest_logos"`
	LatestReviews  []repository.ReviewDigest  `json:"latest_reviews"`
	LatestActivity []repository.ActivityEntry `json:"latest_activity"`
	GeneratedAt    time.Time                  `json:"generated_at"`
}

// Overview 获取仪表盘总览，forceRefresh 时跳过缓存
func (s *DashboardService) Overview(ctx context.Context, forceRefresh bool) (*DashboardOverview, error) {
	if !forceRefresh {
		var cached DashboardOverview
		hit, cacheErr := cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	logoCounts, err := s.projectRepo.Counts()
	if err != nil {
		return nil, err
	}
	reviewCounts, err := s.reviewRepo.Counts()
	if err != nil {
		return nil, err
	}
	latestLogos, err := s.projectRepo.ListLatest(dashboardLatestLogos)
	if err != nil {
		return nil, err
	}
	latestReviews, err := s.reviewRepo.ListLatest(dashboardLatestReviews)
	if err != nil {
		return nil, err
	}
	latestActivity, err := s.activityRepo.ListLatest(dashboardLatestEvents)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		Logos:          logoCounts,
		Reviews:        reviewCounts,
		LatestLogos:    nonNilSlice(latestLogos),
		LatestReviews:  nonNilSlice(latestReviews),
		LatestActivity: nonNilSlice(latestActivity),
		GeneratedAt:    time.Now().UTC(),
	}
	_ = cache.SetJSON(ctx, dashboardCacheKey, overview, dashboardCacheTTL)
	return overview, nil
}

func nonNilSlice[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
