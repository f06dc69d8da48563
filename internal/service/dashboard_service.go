package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/institute-erp-api/internal/models"
	"github.com/noah-isme/institute-erp-api/pkg/cache"
)

type dashboardRepository interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// DashboardService serves the headline counts shown after sign-in.
type DashboardService struct {
	repo    dashboardRepository
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewDashboardService constructs the dashboard service. cache and metrics may be nil.
func NewDashboardService(repo dashboardRepository, cacheSvc *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &DashboardService{repo: repo, cache: cacheSvc, metrics: metrics, ttl: ttl, logger: logger, now: time.Now}
}

// Stats returns the dashboard counts and whether they came from the cache.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, bool, error) {
	key := cache.Key("dashboard", "stats")
	var cached models.DashboardStats
	if s.cache.Get(ctx, key, &cached) {
		return &cached, true, nil
	}

	start := time.Now()
	stats, err := s.repo.Stats(ctx)
	s.metrics.ObserveDBQuery("dashboard_stats", time.Since(start))
	if err != nil {
		return nil, false, internalError(err, "failed to load dashboard")
	}
	stats.GeneratedAt = s.now().UTC()
	s.cache.Set(ctx, key, stats, s.ttl)
	return stats, false, nil
}
