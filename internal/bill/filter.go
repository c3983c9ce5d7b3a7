package bill

import (
	"fmt"
	"strings"
	"time"
)

// StatusFilter narrows a bill listing. "today" and "overdue" only ever match
// OPEN bills.
type StatusFilter string

const (
	StatusFilterAll     StatusFilter = "all"
	StatusFilterOpen    StatusFilter = "open"
	StatusFilterPaid    StatusFilter = "paid"
	StatusFilterToday   StatusFilter = "today"
	StatusFilterOverdue StatusFilter = "overdue"
)

// ParseStatusFilter validates the status query parameter. Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case "", StatusFilterAll:
		return StatusFilterAll, nil
	case StatusFilterOpen, StatusFilterPaid, StatusFilterToday, StatusFilterOverdue:
		return StatusFilter(s), nil
	}
	return "", fmt.Errorf("invalid status filter %q", s)
}

// Filter is the predicate set shared by the bill listing, the unpaged count
// and the CSV export. Start/End are the month's half-open bounds; Today is
// the UTC calendar date the "today"/"overdue" filters compare against. It is
// always passed as a parameter so the database server's timezone never leaks
// into results.
type Filter struct {
	UserID     int
	Start      time.Time
	End        time.Time
	Status     StatusFilter
	CategoryID *int
	Search     string
	Today      time.Time
}

// BuildWhere renders the filter as SQL predicates over the alias "b",
// returning the clause and its positional arguments.
func (f Filter) BuildWhere() (string, []interface{}) {
	where := []string{"b.user_id = $1", "b.due_date >= $2", "b.due_date < $3"}
	args := []interface{}{f.UserID, f.Start, f.End}

	switch f.Status {
	case StatusFilterOpen:
		where = append(where, "b.status = 'OPEN'")
	case StatusFilterPaid:
		where = append(where, "b.status = 'PAID'")
	case StatusFilterToday:
		where = append(where, fmt.Sprintf("b.status = 'OPEN' AND b.due_date = $%d", len(args)+1))
		args = append(args, f.Today)
	case StatusFilterOverdue:
		where = append(where, fmt.Sprintf("b.status = 'OPEN' AND b.due_date < $%d", len(args)+1))
		args = append(args, f.Today)
	}

	if f.CategoryID != nil {
		where = append(where, fmt.Sprintf("b.category_id = $%d", len(args)+1))
		args = append(args, *f.CategoryID)
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		where = append(where, fmt.Sprintf("(b.title ILIKE $%d OR b.notes ILIKE $%d)", len(args)+1, len(args)+2))
		args = append(args, pattern, pattern)
	}

	return strings.Join(where, " AND "), args
}
