package category

import (
	"database/sql"
	"errors"

	"github.com/sirupsen/logrus"
)

type CategoryRepository struct{}

type CategoryRepositoryInterface interface {
	SeedDefaults(tx *sql.Tx, userID int) error
	ListByUser(db *sql.DB, userID int) ([]*Category, error)
	ExistsForUser(db *sql.DB, id, userID int) (bool, error)
}

func NewCategoryRepository() CategoryRepositoryInterface {
	return &CategoryRepository{}
}

// SeedDefaults inserts the fixed default category set for a freshly
// registered user. Runs inside the registration transaction so a failed seed
// rolls the user insert back too.
func (r *CategoryRepository) SeedDefaults(tx *sql.Tx, userID int) error {
	query := `
		INSERT INTO categories (name, user_id)
		VALUES ($1, $2)
	`

	for _, name := range DefaultCategories {
		if _, err := tx.Exec(query, name, userID); err != nil {
			logrus.WithError(err).WithField("user_id", userID).Error("Failed to seed default categories")
			return err
		}
	}

	return nil
}

// ListByUser returns the user's categories in alphabetical order.
func (r *CategoryRepository) ListByUser(db *sql.DB, userID int) ([]*Category, error) {
	query := `
		SELECT id, name, user_id
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID); err != nil {
			logrus.Error("Error scanning category row: ", err)
			continue
		}
		categories = append(categories, &c)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}

// ExistsForUser reports whether the category belongs to the user. Used for
// the ownership check before a bill write may reference it.
func (r *CategoryRepository) ExistsForUser(db *sql.DB, id, userID int) (bool, error) {
	query := `
		SELECT id
		FROM categories
		WHERE id = $1 AND user_id = $2
		LIMIT 1
	`

	var found int
	err := db.QueryRow(query, id, userID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
