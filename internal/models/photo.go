package models

import "time"

// Photo represents an uploaded image and its metadata. The owner is fixed at
// creation; description and tags are the only mutable parts of the record.
type Photo struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"user_id" gorm:"type:varchar(36);not null;index"`
	Description    string    `json:"description" gorm:"type:text" validate:"omitempty,max=500"`
	ImageURL       string    `json:"image_url" gorm:"type:varchar(255);not null"`
	PublicID       string    `json:"public_id" gorm:"type:varchar(255);not null"`
	TransformedURL string    `json:"transformed_url,omitempty" gorm:"type:varchar(255)"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`

	Tags     []Tag     `json:"tags" gorm:"many2many:photo_tags;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"comments" gorm:"constraint:OnDelete:CASCADE"`
	Ratings  []Rating  `json:"-" gorm:"constraint:OnDelete:CASCADE"`

	// Mean of the associated rating values, nil when nothing is rated yet.
	// Computed per request, never persisted.
	AverageRating *float64 `json:"average_rating" gorm:"-"`
}
