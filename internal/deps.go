package internal

import (
	"taskbox/task-api/pkg/security"
	"taskbox/task-api/storage"

	"gorm.io/gorm"
)

// Deps holds everything constructed once at startup and handed to the
// handlers. Nothing in here is reachable as a package global on purpose.
type Deps struct {
	DB      *gorm.DB
	Argon   *security.ArgonHash
	Storage storage.Storage
}
