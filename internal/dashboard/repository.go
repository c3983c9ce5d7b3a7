package dashboard

import (
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"
)

type DashboardRepository struct{}

type DashboardRepositoryInterface interface {
	Totals(db *sql.DB, userID int, start, end, today time.Time) (*Totals, error)
	DailySeries(db *sql.DB, userID int, start, end time.Time) ([]DayTotal, error)
	RangeTotal(db *sql.DB, userID int, start, end time.Time) (int64, error)
}

func NewDashboardRepository() DashboardRepositoryInterface {
	return &DashboardRepository{}
}

// Totals computes the open/paid/overdue sums and due-today count for the
// month range. "today" arrives as a parameter so results never depend on the
// database server's clock.
func (r *DashboardRepository) Totals(db *sql.DB, userID int, start, end, today time.Time) (*Totals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'OPEN' THEN amount_cents ELSE 0 END), 0) AS total_open,
			COALESCE(SUM(CASE WHEN status = 'PAID' THEN amount_cents ELSE 0 END), 0) AS total_paid,
			COALESCE(SUM(CASE WHEN status = 'OPEN' AND due_date < $4 THEN amount_cents ELSE 0 END), 0) AS total_overdue,
			COALESCE(SUM(CASE WHEN status = 'OPEN' AND due_date = $4 THEN 1 ELSE 0 END), 0) AS due_today_count
		FROM bills
		WHERE user_id = $1 AND due_date >= $2 AND due_date < $3
	`

	t := &Totals{}
	err := db.QueryRow(query, userID, start, end, today).Scan(
		&t.TotalOpen,
		&t.TotalPaid,
		&t.TotalOverdue,
		&t.DueTodayCount,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to compute dashboard totals")
		return nil, err
	}

	return t, nil
}

// DailySeries sums amounts per due date within the range, ascending.
func (r *DashboardRepository) DailySeries(db *sql.DB, userID int, start, end time.Time) ([]DayTotal, error) {
	query := `
		SELECT to_char(due_date, 'YYYY-MM-DD') AS day, COALESCE(SUM(amount_cents), 0) AS total
		FROM bills
		WHERE user_id = $1 AND due_date >= $2 AND due_date < $3
		GROUP BY due_date
		ORDER BY due_date ASC
	`

	rows, err := db.Query(query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := []DayTotal{}
	for rows.Next() {
		var d DayTotal
		if err := rows.Scan(&d.Day, &d.Total); err != nil {
			logrus.Error("Error scanning chart row: ", err)
			continue
		}
		series = append(series, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return series, nil
}

// RangeTotal sums all bills regardless of status within the range.
func (r *DashboardRepository) RangeTotal(db *sql.DB, userID int, start, end time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM bills
		WHERE user_id = $1 AND due_date >= $2 AND due_date < $3
	`

	var total int64
	if err := db.QueryRow(query, userID, start, end).Scan(&total); err != nil {
		logrus.WithError(err).Error("Failed to compute range total")
		return 0, err
	}

	return total, nil
}
