// Package model defines database models
package model

type User struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `gorm:"not null" json:"name"`

	// Stored lowercased so the unique index doubles as the
	// case-insensitive duplicate check
	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string  `gorm:"not null" json:"-"`
	AvatarPath   *string `json:"avatar,omitempty"`

	// Unix millisecond timestamp
	CreatedAt int64 `gorm:"autoCreateTime:milli" json:"created_at"`

	ResetTokens []PasswordResetToken `gorm:"foreignKey:UserID" json:"-"`
	Tasks       []Task               `gorm:"foreignKey:UserID" json:"-"`
}

// Public returns the fields safe to hand to clients. The password
// hash never leaves the server, not even in error paths
func (u *User) Public() map[string]any {
	out := map[string]any{
		"id":    u.ID,
		"name":  u.Name,
		"email": u.Email,
	}

	if u.AvatarPath != nil {
		out["avatar"] = *u.AvatarPath
	}

	return out
}
