package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ticket-sales/models"
	"ticket-sales/monitoring"
	"ticket-sales/utils"
)

const statsCacheKey = "stats:snapshot"

// StatsStore is the slice of the ticket store the aggregation needs.
type StatsStore interface {
	SumQuantity(ticketType, status string) (int, error)
	GetOrCreateConfig() (*models.EventConfig, error)
}

// StatsService computes the sales statistics snapshot. Both clients
// poll it on fixed intervals, so computed snapshots are cached in Redis
// for a short TTL. Redis is strictly optional: any cache failure falls
// back to computing from the store.
type StatsService struct {
	store   StatsStore
	Redis   *redis.Client
	ttl     time.Duration
	breaker *utils.CircuitBreaker
}

func NewStatsService(store StatsStore, redisClient *redis.Client, ttl time.Duration) *StatsService {
	return &StatsService{
		store: store,
		Redis: redisClient,
		ttl:   ttl,
		breaker: utils.NewCircuitBreaker("stats-cache",
			utils.WithTimeout(15*time.Second),
			utils.WithFailureRatio(0.5, 5),
		),
	}
}

// GetStats returns the current snapshot, from cache when fresh.
func (s *StatsService) GetStats(ctx context.Context) (*models.Stats, error) {
	if cached := s.readCache(ctx); cached != nil {
		monitoring.TrackStatsCache("hit")
		return cached, nil
	}
	monitoring.TrackStatsCache("miss")

	stats, err := s.Compute()
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, stats)
	return stats, nil
}

// Compute builds the snapshot from the store, bypassing the cache.
// First call lazily creates the config singleton with defaults.
func (s *StatsService) Compute() (*models.Stats, error) {
	cfg, err := s.store.GetOrCreateConfig()
	if err != nil {
		return nil, err
	}

	standardSold, err := s.store.SumQuantity(models.TicketTypeStandard, models.TicketStatusSold)
	if err != nil {
		return nil, err
	}
	premiumSold, err := s.store.SumQuantity(models.TicketTypePremium, models.TicketStatusSold)
	if err != nil {
		return nil, err
	}

	revenue := tierRevenue(cfg, models.TicketTypeStandard, standardSold).
		Add(tierRevenue(cfg, models.TicketTypePremium, premiumSold))
	totalRevenue, _ := revenue.Float64()

	return &models.Stats{
		Standard:     tierStats(cfg, models.TicketTypeStandard, standardSold),
		Premium:      tierStats(cfg, models.TicketTypePremium, premiumSold),
		TotalRevenue: totalRevenue,
	}, nil
}

// Remaining may go negative on oversell, reported as-is.
func tierStats(cfg *models.EventConfig, ticketType string, sold int) models.TierStats {
	total := cfg.TotalFor(ticketType)
	return models.TierStats{
		Sold:      sold,
		Total:     total,
		Remaining: total - sold,
		Price:     cfg.PriceFor(ticketType),
	}
}

func tierRevenue(cfg *models.EventConfig, ticketType string, sold int) decimal.Decimal {
	return decimal.NewFromFloat(cfg.PriceFor(ticketType)).
		Mul(decimal.NewFromInt(int64(sold)))
}

// Invalidate drops the cached snapshot after a mutation so the next
// poll reflects it. Best effort.
func (s *StatsService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	err := s.breaker.Execute(ctx, func() error {
		return s.Redis.Del(ctx, statsCacheKey).Err()
	})
	if err != nil && !errors.Is(err, utils.ErrBreakerOpen) {
		slog.Warn("stats cache invalidation failed", "error", err)
	}
}

func (s *StatsService) readCache(ctx context.Context) *models.Stats {
	if s.Redis == nil {
		return nil
	}

	var payload string
	err := s.breaker.Execute(ctx, func() error {
		val, err := s.Redis.Get(ctx, statsCacheKey).Result()
		if errors.Is(err, redis.Nil) {
			// cache miss, not a dependency failure
			return nil
		}
		if err != nil {
			return err
		}
		payload = val
		return nil
	})
	if err != nil {
		if !errors.Is(err, utils.ErrBreakerOpen) {
			slog.Warn("stats cache read failed", "error", err)
		}
		return nil
	}
	if payload == "" {
		return nil
	}

	var stats models.Stats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		slog.Warn("stats cache payload corrupt, recomputing", "error", err)
		return nil
	}
	return &stats
}

func (s *StatsService) writeCache(ctx context.Context, stats *models.Stats) {
	if s.Redis == nil {
		return
	}

	payload, err := json.Marshal(stats)
	if err != nil {
		return
	}

	err = s.breaker.Execute(ctx, func() error {
		return s.Redis.Set(ctx, statsCacheKey, payload, s.ttl).Err()
	})
	if err != nil && !errors.Is(err, utils.ErrBreakerOpen) {
		slog.Warn("stats cache write failed", "error", err)
	}
}
