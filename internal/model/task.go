package model

import "time"

type Task struct {
	ID string `gorm:"primaryKey" json:"id"`

	// Owner of the task. Set once at creation and never updated,
	// it's the only principal allowed to write
	UserID string `gorm:"index;not null" json:"owner"`

	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	Important   bool       `gorm:"default:false" json:"important"`

	// User IDs granted read-only access
	SharedWith IDList `json:"shared_with"`

	// Unix millisecond timestamps
	CreatedAt int64 `gorm:"autoCreateTime:milli" json:"created_at"`
	UpdatedAt int64 `gorm:"autoUpdateTime:milli" json:"updated_at"`
}
