package month

import (
	"fmt"
	"time"
)

// Month is a calendar month. All date math in the application goes through
// this type instead of slicing date strings.
type Month struct {
	Year  int
	Month time.Month
}

// Parse parses the "YYYY-MM" form used in query strings.
func Parse(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Current returns the month containing now, on the UTC calendar.
func Current(now time.Time) Month {
	now = now.UTC()
	return Month{Year: now.Year(), Month: now.Month()}
}

// Bounds returns the half-open interval [first of month, first of next month)
// as UTC midnights. time.Date normalizes month 13, so December rolls over
// correctly.
func (m Month) Bounds() (start, end time.Time) {
	start = time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC)
	return start, end
}

// Prev returns the immediately preceding calendar month.
func (m Month) Prev() Month {
	t := time.Date(m.Year, m.Month-1, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
