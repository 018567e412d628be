// Package db opens the database connection and keeps the schema migrated
package db

import (
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskbox/task-api/internal/model"
)

// New opens the configured database. A postgres DSN in db.dsn takes
// priority, otherwise a local SQLite file is used which is enough for
// a single-node deployment.
func New() (*gorm.DB, error) {
	var (
		conn *gorm.DB
		err  error
	)

	if dsn := viper.GetString("db.dsn"); dsn != "" {
		conn, err = gorm.Open(postgres.Open(dsn))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres, %w", err)
		}
	} else {
		conn, err = gorm.Open(sqlite.Open(viper.GetString("db.path")))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
		}
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	return conn, nil
}

// Migrate brings the schema up to date. Split out of New so tests can
// run it against their own in-memory databases.
func Migrate(conn *gorm.DB) error {
	err := conn.AutoMigrate(model.User{}, model.Task{}, model.PasswordResetToken{})
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}
