package bill

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// PageSize is the fixed page length for bill listings.
const PageSize = 20

// UpdateFields carries the validated subset of columns a partial update
// touches. Only non-nil fields end up in the SET clause.
type UpdateFields struct {
	Title       *string
	AmountCents *int64
	DueDate     *time.Time
	Status      *string
	PaidAt      *time.Time
	Notes       *string
	CategoryID  *int
}

type BillRepository struct{}

type BillRepositoryInterface interface {
	List(db *sql.DB, f Filter, limit, offset int) ([]*Bill, error)
	ListAll(db *sql.DB, f Filter) ([]*Bill, error)
	Count(db *sql.DB, f Filter) (int, error)
	Create(db *sql.DB, b *Bill) (int64, error)
	Update(db *sql.DB, userID int, id int64, fields UpdateFields) (bool, error)
	Delete(db *sql.DB, userID int, id int64) (bool, error)
	MarkPaid(db *sql.DB, userID int, id int64, paidAt time.Time) (bool, error)
	Reopen(db *sql.DB, userID int, id int64) (bool, error)
}

func NewBillRepository() BillRepositoryInterface {
	return &BillRepository{}
}

const selectColumns = `
		b.id, b.title, b.amount_cents, b.due_date, b.status,
		b.paid_at, b.notes, b.category_id, c.name AS category_name
`

// List returns one page of bills matching the filter, ordered by due date
// ascending with id descending as tie-break so pagination stays stable when
// due dates collide.
func (r *BillRepository) List(db *sql.DB, f Filter, limit, offset int) ([]*Bill, error) {
	where, args := f.BuildWhere()
	query := fmt.Sprintf(`
		SELECT %s
		FROM bills b
		LEFT JOIN categories c ON c.id = b.category_id AND c.user_id = b.user_id
		WHERE %s
		ORDER BY b.due_date ASC, b.id DESC
		LIMIT $%d OFFSET $%d
	`, selectColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.queryBills(db, query, args)
}

// ListAll returns every bill matching the filter, ordered by due date. Used
// by the CSV export, which never paginates.
func (r *BillRepository) ListAll(db *sql.DB, f Filter) ([]*Bill, error) {
	where, args := f.BuildWhere()
	query := fmt.Sprintf(`
		SELECT %s
		FROM bills b
		LEFT JOIN categories c ON c.id = b.category_id AND c.user_id = b.user_id
		WHERE %s
		ORDER BY b.due_date ASC
	`, selectColumns, where)

	return r.queryBills(db, query, args)
}

// Count returns the unpaged total for the same filter the listing uses.
func (r *BillRepository) Count(db *sql.DB, f Filter) (int, error) {
	where, args := f.BuildWhere()
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM bills b
		WHERE %s
	`, where)

	var total int
	if err := db.QueryRow(query, args...).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *BillRepository) Create(db *sql.DB, b *Bill) (int64, error) {
	query := `
		INSERT INTO bills (
			title, amount_cents, due_date, status, paid_at,
			notes, category_id, user_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id
	`

	var id int64
	err := db.QueryRow(
		query,
		b.Title,
		b.AmountCents,
		b.DueDate,
		b.Status,
		b.PaidAt,
		b.Notes,
		b.CategoryID,
		b.UserID,
	).Scan(&id)

	if err != nil {
		logrus.WithError(err).Error("Failed to create bill")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"bill_id":      id,
		"user_id":      b.UserID,
		"amount_cents": b.AmountCents,
	}).Info("Bill created successfully")

	return id, nil
}

// Update applies the supplied fields to the (id, user) row. The boolean is
// false when no row matched, which covers both "absent" and "owned by
// someone else".
func (r *BillRepository) Update(db *sql.DB, userID int, id int64, fields UpdateFields) (bool, error) {
	var set []string
	var args []interface{}

	add := func(column string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)+1))
		args = append(args, value)
	}

	if fields.Title != nil {
		add("title", *fields.Title)
	}
	if fields.AmountCents != nil {
		add("amount_cents", *fields.AmountCents)
	}
	if fields.DueDate != nil {
		add("due_date", *fields.DueDate)
	}
	if fields.Status != nil {
		add("status", *fields.Status)
	}
	if fields.PaidAt != nil {
		add("paid_at", *fields.PaidAt)
	}
	if fields.Notes != nil {
		add("notes", *fields.Notes)
	}
	if fields.CategoryID != nil {
		add("category_id", *fields.CategoryID)
	}

	set = append(set, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE bills
		SET %s
		WHERE id = $%d AND user_id = $%d
	`, strings.Join(set, ", "), len(args)+1, len(args)+2)
	args = append(args, id, userID)

	result, err := db.Exec(query, args...)
	if err != nil {
		logrus.WithError(err).Error("Failed to update bill")
		return false, err
	}

	return affected(result)
}

func (r *BillRepository) Delete(db *sql.DB, userID int, id int64) (bool, error) {
	query := `
		DELETE FROM bills
		WHERE id = $1 AND user_id = $2
	`

	result, err := db.Exec(query, id, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete bill")
		return false, err
	}

	return affected(result)
}

func (r *BillRepository) MarkPaid(db *sql.DB, userID int, id int64, paidAt time.Time) (bool, error) {
	query := `
		UPDATE bills
		SET status = 'PAID', paid_at = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	result, err := db.Exec(query, paidAt, id, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to mark bill as paid")
		return false, err
	}

	return affected(result)
}

func (r *BillRepository) Reopen(db *sql.DB, userID int, id int64) (bool, error) {
	query := `
		UPDATE bills
		SET status = 'OPEN', paid_at = NULL, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	result, err := db.Exec(query, id, userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to reopen bill")
		return false, err
	}

	return affected(result)
}

func (r *BillRepository) queryBills(db *sql.DB, query string, args []interface{}) ([]*Bill, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bills []*Bill
	for rows.Next() {
		var b Bill
		err := rows.Scan(
			&b.ID,
			&b.Title,
			&b.AmountCents,
			&b.DueDate,
			&b.Status,
			&b.PaidAt,
			&b.Notes,
			&b.CategoryID,
			&b.CategoryName,
		)
		if err != nil {
			logrus.Error("Error scanning bill row: ", err)
			continue
		}
		bills = append(bills, &b)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return bills, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
