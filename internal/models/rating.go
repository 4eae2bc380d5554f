package models

// Rating is a single 1-5 score by a user for a photo. The composite unique
// index is what actually enforces one rating per (photo, user) pair under
// concurrent requests.
type Rating struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PhotoID string `json:"photo_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_photo_rater"`
	UserID  string `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_photo_rater"`
	Value   int    `json:"value" gorm:"not null" validate:"required,min=1,max=5"`
}
