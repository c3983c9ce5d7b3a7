package dashboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"bill_tracker/internal/cache"
	"bill_tracker/internal/month"
	"bill_tracker/internal/observability"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

type DashboardServiceInterface interface {
	Summary(userID int, m month.Month) (*Summary, error)
}

type DashboardService struct {
	repo      DashboardRepositoryInterface
	db        *sql.DB
	summaries *cache.SummaryCache
}

func NewDashboardService(repo DashboardRepositoryInterface, db *sql.DB, redisClient *redis.Client) DashboardServiceInterface {
	return &DashboardService{
		repo:      repo,
		db:        db,
		summaries: cache.NewSummaryCache(redisClient),
	}
}

// Summary assembles the month's dashboard: totals, the per-day chart series
// and the comparison against the preceding calendar month. Results are
// cached per (user, month) and invalidated by the bill service on writes.
func (s *DashboardService) Summary(userID int, m month.Month) (*Summary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Try cache first
	cacheKey := cache.SummaryKey(userID, m.String())
	cachedData, err := s.summaries.Get(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var summary Summary
		if json.Unmarshal(cachedData, &summary) == nil {
			logrus.Infof("cache hit for user %d summary %s", userID, m)
			observability.GlobalMetrics.CacheHitsTotal.WithLabelValues("summary").Inc()
			return &summary, nil
		}
	}
	logrus.Infof("cache miss for user %d summary %s", userID, m)
	observability.GlobalMetrics.CacheMissesTotal.WithLabelValues("summary").Inc()

	start, end := m.Bounds()
	prevStart, prevEnd := m.Prev().Bounds()
	today := todayUTC()

	totals, err := s.repo.Totals(s.db, userID, start, end, today)
	if err != nil {
		return nil, err
	}

	chart, err := s.repo.DailySeries(s.db, userID, start, end)
	if err != nil {
		return nil, err
	}

	currentTotal, err := s.repo.RangeTotal(s.db, userID, start, end)
	if err != nil {
		return nil, err
	}

	previousTotal, err := s.repo.RangeTotal(s.db, userID, prevStart, prevEnd)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Month:  m.String(),
		Totals: *totals,
		Comparison: Comparison{
			CurrentTotal:  currentTotal,
			PreviousTotal: previousTotal,
			DiffValue:     currentTotal - previousTotal,
			DiffPercent:   diffPercent(currentTotal, previousTotal),
		},
		Chart: chart,
	}

	// Set cache (ignore error, a cache miss is not critical)
	if err := s.summaries.Set(ctx, cacheKey, summary); err != nil {
		logrus.WithError(err).Warn("Failed to set summary cache")
	}

	return summary, nil
}

// diffPercent returns the month-over-month change rounded to two decimals,
// or nil when the previous month has nothing to compare against.
func diffPercent(current, previous int64) *float64 {
	if previous == 0 {
		return nil
	}

	pct := float64(current-previous) / float64(previous) * 100
	pct = math.Round(pct*100) / 100
	return &pct
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
