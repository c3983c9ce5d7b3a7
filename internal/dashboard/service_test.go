package dashboard

import (
	"database/sql"
	"testing"
	"time"

	"bill_tracker/internal/month"
	"bill_tracker/internal/observability"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDashboardRepository is a mock implementation of DashboardRepositoryInterface
type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) Totals(db *sql.DB, userID int, start, end, today time.Time) (*Totals, error) {
	args := m.Called(db, userID, start, end, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Totals), args.Error(1)
}

func (m *MockDashboardRepository) DailySeries(db *sql.DB, userID int, start, end time.Time) ([]DayTotal, error) {
	args := m.Called(db, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]DayTotal), args.Error(1)
}

func (m *MockDashboardRepository) RangeTotal(db *sql.DB, userID int, start, end time.Time) (int64, error) {
	args := m.Called(db, userID, start, end)
	return args.Get(0).(int64), args.Error(1)
}

// newTestService wires the service with a repo mock. The redis client points
// at a closed port so every cache lookup misses fast.
func newTestService(repo *MockDashboardRepository) DashboardServiceInterface {
	observability.InitMetrics()
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	return NewDashboardService(repo, nil, rdb)
}

func TestDiffPercent_NilWhenNoPreviousMonth(t *testing.T) {
	assert.Nil(t, diffPercent(150000, 0))
	assert.Nil(t, diffPercent(0, 0))
}

func TestDiffPercent_RoundsToTwoDecimals(t *testing.T) {
	// (100 - 300) / 300 * 100 = -66.666...
	pct := diffPercent(100, 300)
	require.NotNil(t, pct)
	assert.Equal(t, -66.67, *pct)

	pct = diffPercent(300, 200)
	require.NotNil(t, pct)
	assert.Equal(t, 50.0, *pct)
}

func TestDiffPercent_ZeroCurrent(t *testing.T) {
	pct := diffPercent(0, 200)
	require.NotNil(t, pct)
	assert.Equal(t, -100.0, *pct)
}

func TestSummary_AssemblesTotalsChartAndComparison(t *testing.T) {
	repo := new(MockDashboardRepository)
	service := newTestService(repo)

	m := month.Month{Year: 2024, Month: time.March}
	start, end := m.Bounds()
	prevStart, prevEnd := m.Prev().Bounds()

	repo.On("Totals", mock.Anything, 1, start, end, mock.Anything).Return(&Totals{
		TotalOpen:     30000,
		TotalPaid:     20000,
		TotalOverdue:  10000,
		DueTodayCount: 2,
	}, nil)
	repo.On("DailySeries", mock.Anything, 1, start, end).Return([]DayTotal{
		{Day: "2024-03-05", Total: 25000},
		{Day: "2024-03-10", Total: 25000},
	}, nil)
	repo.On("RangeTotal", mock.Anything, 1, start, end).Return(int64(50000), nil)
	repo.On("RangeTotal", mock.Anything, 1, prevStart, prevEnd).Return(int64(40000), nil)

	summary, err := service.Summary(1, m)

	require.NoError(t, err)
	assert.Equal(t, "2024-03", summary.Month)
	assert.Equal(t, int64(30000), summary.Totals.TotalOpen)
	assert.Equal(t, 2, summary.Totals.DueTodayCount)
	assert.Len(t, summary.Chart, 2)
	assert.Equal(t, int64(50000), summary.Comparison.CurrentTotal)
	assert.Equal(t, int64(40000), summary.Comparison.PreviousTotal)
	assert.Equal(t, int64(10000), summary.Comparison.DiffValue)
	require.NotNil(t, summary.Comparison.DiffPercent)
	assert.Equal(t, 25.0, *summary.Comparison.DiffPercent)
	repo.AssertExpectations(t)
}

func TestSummary_FirstMonthHasNilDiffPercent(t *testing.T) {
	repo := new(MockDashboardRepository)
	service := newTestService(repo)

	m := month.Month{Year: 2024, Month: time.January}
	start, end := m.Bounds()
	prevStart, prevEnd := m.Prev().Bounds()

	repo.On("Totals", mock.Anything, 1, start, end, mock.Anything).Return(&Totals{}, nil)
	repo.On("DailySeries", mock.Anything, 1, start, end).Return([]DayTotal{}, nil)
	repo.On("RangeTotal", mock.Anything, 1, start, end).Return(int64(50000), nil)
	repo.On("RangeTotal", mock.Anything, 1, prevStart, prevEnd).Return(int64(0), nil)

	summary, err := service.Summary(1, m)

	require.NoError(t, err)
	assert.Nil(t, summary.Comparison.DiffPercent)
	assert.Equal(t, int64(50000), summary.Comparison.DiffValue)
}
