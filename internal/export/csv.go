package export

import (
	"strconv"
	"strings"
	"time"

	"bill_tracker/internal/bill"
)

const csvHeader = "id,title,amount,due_date,status,status_label,paid_at,category,notes"

// Display labels for open bills relative to today.
const (
	labelToday   = "TODAY"
	labelOverdue = "OVERDUE"
)

// BuildCSV serializes bills to CSV. Text fields are always quoted with
// embedded quotes doubled; numeric and date fields are emitted bare. Open
// bills due today or in the past get a display label, everything else keeps
// the raw status code.
func BuildCSV(bills []*bill.Bill, today time.Time) string {
	var sb strings.Builder
	sb.WriteString(csvHeader)

	for _, b := range bills {
		paidAt := ""
		if b.PaidAt != nil {
			paidAt = b.PaidAt.Format(bill.DateFormat)
		}

		categoryName := ""
		if b.CategoryName != nil {
			categoryName = *b.CategoryName
		}

		notes := ""
		if b.Notes != nil {
			notes = *b.Notes
		}

		cols := []string{
			strconv.FormatInt(b.ID, 10),
			quote(b.Title),
			strconv.FormatInt(b.AmountCents, 10),
			b.DueDate.Format(bill.DateFormat),
			b.Status,
			statusLabel(b, today),
			paidAt,
			quote(categoryName),
			quote(notes),
		}

		sb.WriteString("\n")
		sb.WriteString(strings.Join(cols, ","))
	}

	return sb.String()
}

func statusLabel(b *bill.Bill, today time.Time) string {
	if b.Status != bill.StatusOpen {
		return b.Status
	}

	switch {
	case b.DueDate.Equal(today):
		return labelToday
	case b.DueDate.Before(today):
		return labelOverdue
	}

	return b.Status
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
