package dashboard

// Totals are the month-scoped aggregates shown on the dashboard, in cents.
type Totals struct {
	TotalOpen     int64 `json:"total_open"`
	TotalPaid     int64 `json:"total_paid"`
	TotalOverdue  int64 `json:"total_overdue"`
	DueTodayCount int   `json:"due_today_count"`
}

// Comparison is the month-over-month delta. DiffPercent is nil when the
// previous month has no bills at all.
type Comparison struct {
	CurrentTotal  int64    `json:"current_total"`
	PreviousTotal int64    `json:"previous_total"`
	DiffValue     int64    `json:"diff_value"`
	DiffPercent   *float64 `json:"diff_percent"`
}

// DayTotal is one point of the per-day chart series. Days without bills are
// omitted, not zero-filled.
type DayTotal struct {
	Day   string `json:"day"`
	Total int64  `json:"total"`
}

type Summary struct {
	Month      string     `json:"month"`
	Totals     Totals     `json:"totals"`
	Comparison Comparison `json:"comparison"`
	Chart      []DayTotal `json:"chart"`
}
