package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

const statsCacheKey = "helpdesk:admin:stats"

// AdminStats aggregates operational numbers for the admin dashboard.
type AdminStats struct {
	OpenTickets        int64   `json:"open_tickets"`
	AvgResolutionHours float64 `json:"avg_resolution_hours"`
	SLABreaches        int64   `json:"sla_breaches"`
	AvgRating          float64 `json:"avg_rating"`
	RatingCount        int64   `json:"rating_count"`
	GeneratedAt        int64   `json:"generated_at"`
}

// StatsService computes dashboard aggregates with a short-lived Redis cache
// in front of the SQL aggregation. Cache failures degrade to a direct query.
type StatsService struct {
	tickets repository.TicketRepository
	ratings repository.RatingRepository
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.Logger
}

// StatsDependencies bundles collaborators for the stats service.
type StatsDependencies struct {
	TicketRepo repository.TicketRepository
	RatingRepo repository.RatingRepository
	Cache      *redis.Client
	CacheTTL   time.Duration
	Logger     *zap.Logger
}

// NewStatsService constructs the service.
func NewStatsService(deps StatsDependencies) *StatsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &StatsService{
		tickets: deps.TicketRepo,
		ratings: deps.RatingRepo,
		cache:   deps.Cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// GetStats returns the current aggregates, served from cache when fresh.
func (s *StatsService) GetStats(ctx context.Context) (*AdminStats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	ticketStats, err := s.tickets.CollectStats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avgRating, ratingCount, err := s.ratings.Average(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	stats := &AdminStats{
		OpenTickets:        ticketStats.OpenCount,
		AvgResolutionHours: roundStat(ticketStats.AvgResolutionHours),
		SLABreaches:        ticketStats.SLABreaches,
		AvgRating:          roundStat(avgRating),
		RatingCount:        ratingCount,
		GeneratedAt:        time.Now().Unix(),
	}
	s.toCache(ctx, stats)
	return stats, nil
}

func (s *StatsService) fromCache(ctx context.Context) *AdminStats {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
		return nil
	}
	var stats AdminStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("stats cache entry unreadable", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *StatsService) toCache(ctx context.Context, stats *AdminStats) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.ttl).Err(); err != nil {
		s.logger.Warn("stats cache write failed", zap.Error(err))
	}
}

func roundStat(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
