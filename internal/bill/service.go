package bill

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bill_tracker/internal/cache"
	"bill_tracker/internal/category"
	"bill_tracker/internal/month"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound        = errors.New("bill not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrEmptyUpdate     = errors.New("update requires at least one field")
	ErrInvalidDate     = errors.New("invalid date")
)

// ListQuery is the validated query for a bill listing.
type ListQuery struct {
	Month      month.Month
	Status     StatusFilter
	CategoryID *int
	Search     string
	Page       int
}

type ListResult struct {
	Bills []*Bill
	Page  int
	Limit int
	Total int
}

type BillServiceInterface interface {
	List(userID int, q ListQuery) (*ListResult, error)
	ListForExport(userID int, m month.Month, status StatusFilter) ([]*Bill, error)
	Create(userID int, req *CreateBillRequest) (int64, error)
	Update(userID int, id int64, req *UpdateBillRequest) error
	Delete(userID int, id int64) error
	MarkPaid(userID int, id int64, paidAt *string) error
	Reopen(userID int, id int64) error
	ListCategories(userID int) ([]*category.Category, error)
}

type BillService struct {
	repo         BillRepositoryInterface
	categoryRepo category.CategoryRepositoryInterface
	db           *sql.DB
	summaries    *cache.SummaryCache
}

func NewBillService(repo BillRepositoryInterface, categoryRepo category.CategoryRepositoryInterface, db *sql.DB, redisClient *redis.Client) BillServiceInterface {
	return &BillService{
		repo:         repo,
		categoryRepo: categoryRepo,
		db:           db,
		summaries:    cache.NewSummaryCache(redisClient),
	}
}

func (s *BillService) List(userID int, q ListQuery) (*ListResult, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}

	f := s.filter(userID, q.Month, q.Status)
	f.CategoryID = q.CategoryID
	f.Search = q.Search

	bills, err := s.repo.List(s.db, f, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(s.db, f)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Bills: bills,
		Page:  page,
		Limit: PageSize,
		Total: total,
	}, nil
}

// ListForExport re-runs the listing filter without pagination, for the CSV
// export.
func (s *BillService) ListForExport(userID int, m month.Month, status StatusFilter) ([]*Bill, error) {
	return s.repo.ListAll(s.db, s.filter(userID, m, status))
}

func (s *BillService) Create(userID int, req *CreateBillRequest) (int64, error) {
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return 0, err
	}

	var paidAt *time.Time
	if req.PaidAt != nil {
		t, err := parseDate(*req.PaidAt)
		if err != nil {
			return 0, err
		}
		paidAt = &t
	}

	if err := s.checkCategory(userID, req.CategoryID); err != nil {
		return 0, err
	}

	status := req.Status
	if status == "" {
		status = StatusOpen
	}

	b := &Bill{
		UserID:      userID,
		Title:       req.Title,
		AmountCents: req.Amount,
		DueDate:     dueDate,
		Status:      status,
		PaidAt:      paidAt,
		Notes:       req.Notes,
		CategoryID:  req.CategoryID,
	}

	id, err := s.repo.Create(s.db, b)
	if err != nil {
		return 0, err
	}

	s.invalidateSummaries(userID)
	return id, nil
}

func (s *BillService) Update(userID int, id int64, req *UpdateBillRequest) error {
	if req.Empty() {
		return ErrEmptyUpdate
	}

	if err := s.checkCategory(userID, req.CategoryID); err != nil {
		return err
	}

	fields := UpdateFields{
		Title:       req.Title,
		AmountCents: req.Amount,
		Status:      req.Status,
		Notes:       req.Notes,
		CategoryID:  req.CategoryID,
	}

	if req.DueDate != nil {
		t, err := parseDate(*req.DueDate)
		if err != nil {
			return err
		}
		fields.DueDate = &t
	}
	if req.PaidAt != nil {
		t, err := parseDate(*req.PaidAt)
		if err != nil {
			return err
		}
		fields.PaidAt = &t
	}

	found, err := s.repo.Update(s.db, userID, id, fields)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	s.invalidateSummaries(userID)
	return nil
}

func (s *BillService) Delete(userID int, id int64) error {
	found, err := s.repo.Delete(s.db, userID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	s.invalidateSummaries(userID)
	return nil
}

// MarkPaid flips the bill to PAID with the supplied date, or today (UTC)
// when none is given.
func (s *BillService) MarkPaid(userID int, id int64, paidAt *string) error {
	date := todayUTC()
	if paidAt != nil {
		t, err := parseDate(*paidAt)
		if err != nil {
			return err
		}
		date = t
	}

	found, err := s.repo.MarkPaid(s.db, userID, id, date)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	s.invalidateSummaries(userID)
	return nil
}

// Reopen flips the bill back to OPEN and clears paid_at.
func (s *BillService) Reopen(userID int, id int64) error {
	found, err := s.repo.Reopen(s.db, userID, id)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}

	s.invalidateSummaries(userID)
	return nil
}

func (s *BillService) ListCategories(userID int) ([]*category.Category, error) {
	return s.categoryRepo.ListByUser(s.db, userID)
}

func (s *BillService) filter(userID int, m month.Month, status StatusFilter) Filter {
	start, end := m.Bounds()
	return Filter{
		UserID: userID,
		Start:  start,
		End:    end,
		Status: status,
		Today:  todayUTC(),
	}
}

// checkCategory enforces that a referenced category belongs to the writing
// user.
func (s *BillService) checkCategory(userID int, categoryID *int) error {
	if categoryID == nil {
		return nil
	}

	ok, err := s.categoryRepo.ExistsForUser(s.db, *categoryID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidCategory
	}

	return nil
}

// invalidateSummaries drops the user's cached dashboard summaries after any
// bill write. Cache failures only cost freshness, so they are logged and
// swallowed.
func (s *BillService) invalidateSummaries(userID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.summaries.Invalidate(ctx, userID); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate summary cache")
	}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
