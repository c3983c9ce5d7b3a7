package bill

import (
	"database/sql"
	"testing"
	"time"

	"bill_tracker/internal/category"
	"bill_tracker/internal/month"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBillRepository is a mock implementation of BillRepositoryInterface
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) List(db *sql.DB, f Filter, limit, offset int) ([]*Bill, error) {
	args := m.Called(db, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Bill), args.Error(1)
}

func (m *MockBillRepository) ListAll(db *sql.DB, f Filter) ([]*Bill, error) {
	args := m.Called(db, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Bill), args.Error(1)
}

func (m *MockBillRepository) Count(db *sql.DB, f Filter) (int, error) {
	args := m.Called(db, f)
	return args.Int(0), args.Error(1)
}

func (m *MockBillRepository) Create(db *sql.DB, b *Bill) (int64, error) {
	args := m.Called(db, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillRepository) Update(db *sql.DB, userID int, id int64, fields UpdateFields) (bool, error) {
	args := m.Called(db, userID, id, fields)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) Delete(db *sql.DB, userID int, id int64) (bool, error) {
	args := m.Called(db, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) MarkPaid(db *sql.DB, userID int, id int64, paidAt time.Time) (bool, error) {
	args := m.Called(db, userID, id, paidAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBillRepository) Reopen(db *sql.DB, userID int, id int64) (bool, error) {
	args := m.Called(db, userID, id)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of
// category.CategoryRepositoryInterface
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) SeedDefaults(tx *sql.Tx, userID int) error {
	args := m.Called(tx, userID)
	return args.Error(0)
}

func (m *MockCategoryRepository) ListByUser(db *sql.DB, userID int) ([]*category.Category, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*category.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsForUser(db *sql.DB, id, userID int) (bool, error) {
	args := m.Called(db, id, userID)
	return args.Bool(0), args.Error(1)
}

// newTestService wires the service with mocks. The redis client points at a
// closed port: summary invalidation failures are logged and swallowed, so
// tests stay independent of a running Redis.
func newTestService(repo *MockBillRepository, categoryRepo *MockCategoryRepository) BillServiceInterface {
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:1"})
	return NewBillService(repo, categoryRepo, nil, rdb)
}

func TestServiceCreate_DefaultsStatusToOpen(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *Bill) bool {
		return b.Status == StatusOpen && b.AmountCents == 150000 &&
			b.DueDate.Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	})).Return(int64(1), nil)

	id, err := service.Create(1, &CreateBillRequest{
		Title:   "Rent",
		Amount:  150000,
		DueDate: "2024-03-05",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	repo.AssertExpectations(t)
}

func TestServiceCreate_InvalidDueDate(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	_, err := service.Create(1, &CreateBillRequest{
		Title:   "Rent",
		Amount:  150000,
		DueDate: "05/03/2024",
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
	repo.AssertNotCalled(t, "Create")
}

func TestServiceCreate_CategoryOwnershipEnforced(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	categoryID := 99
	categoryRepo.On("ExistsForUser", mock.Anything, 99, 1).Return(false, nil)

	_, err := service.Create(1, &CreateBillRequest{
		Title:      "Rent",
		Amount:     150000,
		DueDate:    "2024-03-05",
		CategoryID: &categoryID,
	})

	assert.ErrorIs(t, err, ErrInvalidCategory)
	repo.AssertNotCalled(t, "Create")
}

func TestServiceUpdate_EmptyPayloadRejected(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	err := service.Update(1, 10, &UpdateBillRequest{})

	assert.ErrorIs(t, err, ErrEmptyUpdate)
	repo.AssertNotCalled(t, "Update")
}

func TestServiceUpdate_NotFound(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	title := "Rent"
	repo.On("Update", mock.Anything, 1, int64(10), mock.Anything).Return(false, nil)

	err := service.Update(1, 10, &UpdateBillRequest{Title: &title})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceMarkPaid_UsesSuppliedDate(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	want := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	repo.On("MarkPaid", mock.Anything, 1, int64(10), want).Return(true, nil)

	paidAt := "2024-03-10"
	err := service.MarkPaid(1, 10, &paidAt)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestServiceMarkPaid_DefaultsToTodayUTC(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	repo.On("MarkPaid", mock.Anything, 1, int64(10), mock.MatchedBy(func(paidAt time.Time) bool {
		now := time.Now().UTC()
		return paidAt.Equal(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	})).Return(true, nil)

	err := service.MarkPaid(1, 10, nil)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestServiceReopen_NotFound(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	repo.On("Reopen", mock.Anything, 1, int64(99)).Return(false, nil)

	err := service.Reopen(1, 99)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServiceList_PaginationOffsets(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	m := month.Month{Year: 2024, Month: time.March}

	repo.On("List", mock.Anything, mock.Anything, PageSize, PageSize).Return([]*Bill{}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(45, nil)

	result, err := service.List(1, ListQuery{Month: m, Status: StatusFilterAll, Page: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 45, result.Total)
	repo.AssertExpectations(t)
}

func TestServiceList_ClampsPageToOne(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	m := month.Month{Year: 2024, Month: time.March}

	repo.On("List", mock.Anything, mock.Anything, PageSize, 0).Return([]*Bill{}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(0, nil)

	result, err := service.List(1, ListQuery{Month: m, Status: StatusFilterAll, Page: 0})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	repo.AssertExpectations(t)
}

func TestServiceList_FilterCarriesMonthBounds(t *testing.T) {
	repo := new(MockBillRepository)
	categoryRepo := new(MockCategoryRepository)
	service := newTestService(repo, categoryRepo)

	m := month.Month{Year: 2024, Month: time.March}
	start, end := m.Bounds()

	repo.On("List", mock.Anything, mock.MatchedBy(func(f Filter) bool {
		return f.Start.Equal(start) && f.End.Equal(end) && f.Status == StatusFilterOverdue
	}), PageSize, 0).Return([]*Bill{}, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(0, nil)

	_, err := service.List(1, ListQuery{Month: m, Status: StatusFilterOverdue, Page: 1})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
