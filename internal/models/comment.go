package models

import "time"

// Comment is attached to a photo by its author. The author never changes;
// UpdatedAt stays nil until the first edit.
type Comment struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PhotoID   string     `json:"photo_id" gorm:"type:varchar(36);not null;index"`
	UserID    string     `json:"user_id" gorm:"type:varchar(36);not null"`
	Content   string     `json:"content" gorm:"type:varchar(255);not null" validate:"required,max=255"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt *time.Time `json:"updated_at" gorm:"autoUpdateTime:false"`
}
