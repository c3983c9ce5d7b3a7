package db

import (
	"database/sql"
	_ "embed"

	"github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schema string

// Migrate applies the schema on startup. All statements are idempotent
// (CREATE ... IF NOT EXISTS) so re-running on every boot is safe.
func Migrate(db *sql.DB) {
	if _, err := db.Exec(schema); err != nil {
		logrus.WithError(err).Fatal("Failed to apply database schema")
	}
	logrus.Info("Database schema up to date")
}
