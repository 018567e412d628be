package service

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskbox/task-api/internal/model"
)

// TokenCleanup periodically deletes password reset tokens that expired
// or were already consumed, so the table doesn't grow forever
func TokenCleanup(t time.Duration, db *gorm.DB) {
	ticker := time.NewTicker(t)

	zap.L().Debug("Token cleanup attached", zap.Duration("tick_every", t))

	go func() {
		for range ticker.C {
			res := db.
				Where("expires_at < ? OR used = ?", time.Now(), true).
				Delete(model.PasswordResetToken{})
			if res.Error != nil {
				zap.L().Error("Failed to cleanup reset tokens", zap.Error(res.Error))
				continue
			}

			if res.RowsAffected > 0 {
				zap.L().Debug("Cleaned up reset tokens", zap.Int64("count", res.RowsAffected))
			}
		}
	}()
}
