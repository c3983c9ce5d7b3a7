package bill

import "time"

const (
	StatusOpen = "OPEN"
	StatusPaid = "PAID"
)

// DateFormat is the wire format for all bill dates.
const DateFormat = "2006-01-02"

type Bill struct {
	ID           int64
	UserID       int
	Title        string
	AmountCents  int64
	DueDate      time.Time
	Status       string
	PaidAt       *time.Time
	Notes        *string
	CategoryID   *int
	CategoryName *string
}

// BillResponse is the JSON projection of a bill. Amounts are integer cents,
// dates are date-only strings.
type BillResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Amount       int64   `json:"amount"`
	DueDate      string  `json:"due_date"`
	Status       string  `json:"status"`
	PaidAt       *string `json:"paid_at"`
	Notes        *string `json:"notes"`
	CategoryID   *int    `json:"category_id"`
	CategoryName *string `json:"category_name"`
}

func (b *Bill) Response() BillResponse {
	resp := BillResponse{
		ID:           b.ID,
		Title:        b.Title,
		Amount:       b.AmountCents,
		DueDate:      b.DueDate.Format(DateFormat),
		Status:       b.Status,
		Notes:        b.Notes,
		CategoryID:   b.CategoryID,
		CategoryName: b.CategoryName,
	}
	if b.PaidAt != nil {
		paidAt := b.PaidAt.Format(DateFormat)
		resp.PaidAt = &paidAt
	}
	return resp
}

type CreateBillRequest struct {
	Title      string  `json:"title" binding:"required,min=1"`
	Amount     int64   `json:"amount" binding:"required,gt=0"`
	DueDate    string  `json:"due_date" binding:"required"`
	Status     string  `json:"status" binding:"omitempty,oneof=OPEN PAID"`
	PaidAt     *string `json:"paid_at"`
	Notes      *string `json:"notes"`
	CategoryID *int    `json:"category_id"`
}

// UpdateBillRequest carries a partial update. Every field is optional; the
// service rejects a payload where none is present.
type UpdateBillRequest struct {
	Title      *string `json:"title" binding:"omitempty,min=1"`
	Amount     *int64  `json:"amount" binding:"omitempty,gt=0"`
	DueDate    *string `json:"due_date"`
	Status     *string `json:"status" binding:"omitempty,oneof=OPEN PAID"`
	PaidAt     *string `json:"paid_at"`
	Notes      *string `json:"notes"`
	CategoryID *int    `json:"category_id"`
}

func (r *UpdateBillRequest) Empty() bool {
	return r.Title == nil &&
		r.Amount == nil &&
		r.DueDate == nil &&
		r.Status == nil &&
		r.PaidAt == nil &&
		r.Notes == nil &&
		r.CategoryID == nil
}
