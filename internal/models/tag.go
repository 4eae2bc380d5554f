package models

// MaxTagsPerPhoto bounds the tag list accepted on photo create/update.
const MaxTagsPerPhoto = 5

// Tag is a global free-text label. Tags are shared across users; nobody owns
// them and they are never deleted when a photo goes away. Removing a tag from
// the catalog is a moderation action and detaches it from every photo.
type Tag struct {
	ID   string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(25);not null" validate:"required,min=1,max=25"`

	Photos []Photo `json:"-" gorm:"many2many:photo_tags"`
}
