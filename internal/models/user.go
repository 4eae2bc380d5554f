package models

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrSnapshotVersion signals a cache blob written by an older build.
var ErrSnapshotVersion = errors.New("user snapshot version mismatch")

// Role determines what a user may do beyond acting on their own resources.
type Role string

const (
	RoleStandard      Role = "standard"
	RoleModerator     Role = "moderator"
	RoleAdministrator Role = "administrator"
)

// IsModerator reports whether the role carries moderation rights.
func (r Role) IsModerator() bool {
	return r == RoleModerator || r == RoleAdministrator
}

// User represents a registered account.
type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username         string    `json:"username" gorm:"type:varchar(50);not null" validate:"required,min=3,max=50"`
	Email            string    `json:"email" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,email"`
	Password         string    `json:"-" gorm:"type:varchar(128);not null" validate:"required,min=6"`
	Role             Role      `json:"role" gorm:"type:varchar(16);not null;default:standard"`
	RegistrationDate time.Time `json:"registration_date" gorm:"autoCreateTime"`
	RefreshToken     string    `json:"-" gorm:"type:varchar(512)"`
	Avatar           string    `json:"avatar,omitempty" gorm:"type:varchar(255)"`

	Photos   []Photo   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	Ratings  []Rating  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// SnapshotVersion is bumped whenever UserSnapshot changes shape so stale
// cache blobs are discarded instead of misread.
const SnapshotVersion = 1

// UserSnapshot is the plain-data projection of a User stored in the identity
// cache. It carries no associations and can always be rebuilt from the blob.
type UserSnapshot struct {
	Version          int       `json:"version"`
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	Role             Role      `json:"role"`
	RegistrationDate time.Time `json:"registration_date"`
	Avatar           string    `json:"avatar,omitempty"`
}

// Snapshot builds the cacheable projection of the user.
func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		Version:          SnapshotVersion,
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		RegistrationDate: u.RegistrationDate,
		Avatar:           u.Avatar,
	}
}

// User rebuilds a transient User view from the snapshot. The password and
// refresh token are intentionally absent; callers needing them must go to
// the directory.
func (s UserSnapshot) User() *User {
	return &User{
		ID:               s.ID,
		Username:         s.Username,
		Email:            s.Email,
		Role:             s.Role,
		RegistrationDate: s.RegistrationDate,
		Avatar:           s.Avatar,
	}
}

// EncodeSnapshot serializes a snapshot for the cache.
func EncodeSnapshot(s UserSnapshot) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot deserializes a cache blob. A version mismatch is reported
// as an error so the caller falls back to the directory.
func DecodeSnapshot(b []byte) (UserSnapshot, error) {
	var s UserSnapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return UserSnapshot{}, err
	}
	if s.Version != SnapshotVersion {
		return UserSnapshot{}, ErrSnapshotVersion
	}
	return s, nil
}
