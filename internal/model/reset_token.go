package model

import "time"

// PasswordResetToken is a single-use token mailed to a user who
// forgot their password. Only one unused token per user exists at
// a time, issuing a new one deletes the previous ones
type PasswordResetToken struct {
	ID        int    `gorm:"primaryKey;autoIncrement"`
	UserID    string `gorm:"index"`
	Token     string `gorm:"uniqueIndex"`
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}
