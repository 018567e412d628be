package security

import (
	"errors"
	"time"

	"taskbox/task-api/internal/model"
	"taskbox/task-api/pkg/util"
)

const (
	resetTokenSize = 32

	// The mailed link dies after an hour, same as auth tokens
	ResetTokenTTL = time.Hour
)

// MakeResetToken builds a fresh single-use password reset token for a
// user. The caller is responsible for persisting it and for deleting
// any older tokens of the same user.
func MakeResetToken(userID string) (*model.PasswordResetToken, error) {
	if userID == "" {
		return nil, errors.New("no user ID provided")
	}

	token, err := util.GenerateToken(resetTokenSize)
	if err != nil {
		return nil, err
	}

	return &model.PasswordResetToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ResetTokenTTL),
		CreatedAt: time.Now(),
		Used:      false,
	}, nil
}
