package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/campus-admin-api/internal/models"
	appErrors "github.com/campuskit/campus-admin-api/pkg/errors"
)

const (
	defaultLatestLimit = 5
	maxLatestLimit     = 50

	cacheKeyOverview = "stats:overview"
	cacheKeyCharts   = "stats:charts"
)

type statsRepository interface {
	Overview(ctx context.Context) (*models.OverviewStats, error)
	UsersByRole(ctx context.Context) ([]models.RoleCount, error)
	SubjectsByDepartment(ctx context.Context) ([]models.DepartmentSubjectCount, error)
	ClassesBySubject(ctx context.Context) ([]models.SubjectClassCount, error)
	LatestClasses(ctx context.Context, limit int) ([]models.ClassDetail, error)
	LatestTeachers(ctx context.Context, limit int) ([]models.LatestTeacher, error)
}

type statsCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// StatsService aggregates dashboard counters, chart groupings and
// latest-activity feeds. Overview and chart payloads are cached with a
// short TTL since they hit several tables per request.
type StatsService struct {
	repo     statsRepository
	cache    statsCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatsService constructs StatsService. The cache may be nil.
func NewStatsService(repo statsRepository, cache statsCache, cacheTTL time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Overview returns the entity counters shown on the dashboard header.
func (s *StatsService) Overview(ctx context.Context) (*models.OverviewStats, error) {
	if s.cache != nil {
		var cached models.OverviewStats
		if err := s.cache.Get(ctx, cacheKeyOverview, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.repo.Overview(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load overview stats")
	}

	s.store(ctx, cacheKeyOverview, stats)
	return stats, nil
}

// Charts returns the grouped counts backing the dashboard charts.
func (s *StatsService) Charts(ctx context.Context) (*models.ChartStats, error) {
	if s.cache != nil {
		var cached models.ChartStats
		if err := s.cache.Get(ctx, cacheKeyCharts, &cached); err == nil {
			return &cached, nil
		}
	}

	usersByRole, err := s.repo.UsersByRole(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to group users by role")
	}
	subjectsByDepartment, err := s.repo.SubjectsByDepartment(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to group subjects by department")
	}
	classesBySubject, err := s.repo.ClassesBySubject(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to group classes by subject")
	}

	if usersByRole == nil {
		usersByRole = []models.RoleCount{}
	}
	if subjectsByDepartment == nil {
		subjectsByDepartment = []models.DepartmentSubjectCount{}
	}
	if classesBySubject == nil {
		classesBySubject = []models.SubjectClassCount{}
	}

	charts := &models.ChartStats{
		UsersByRole:          usersByRole,
		SubjectsByDepartment: subjectsByDepartment,
		ClassesBySubject:     classesBySubject,
	}

	s.store(ctx, cacheKeyCharts, charts)
	return charts, nil
}

// Latest returns the most recently created classes and teachers, newest
// first. Missing limits fall back to 5, oversized ones clamp to 50.
func (s *StatsService) Latest(ctx context.Context, limit int) (*models.LatestStats, error) {
	if limit <= 0 {
		limit = defaultLatestLimit
	}
	if limit > maxLatestLimit {
		limit = maxLatestLimit
	}

	if s.cache != nil {
		var cached models.LatestStats
		if err := s.cache.Get(ctx, latestCacheKey(limit), &cached); err == nil {
			return &cached, nil
		}
	}

	classes, err := s.repo.LatestClasses(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest classes")
	}
	teachers, err := s.repo.LatestTeachers(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest teachers")
	}

	if classes == nil {
		classes = []models.ClassDetail{}
	}
	if teachers == nil {
		teachers = []models.LatestTeacher{}
	}

	latest := &models.LatestStats{Classes: classes, Teachers: teachers}
	s.store(ctx, latestCacheKey(limit), latest)
	return latest, nil
}

func (s *StatsService) store(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache stats payload", zap.String("key", key), zap.Error(err))
	}
}

func latestCacheKey(limit int) string {
	return fmt.Sprintf("stats:latest:%d", limit)
}
