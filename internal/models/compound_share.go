package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CompoundShare grants a user time-limited read access to a compound.
// The (compound, grantee) pair is unique: re-sharing refreshes ExpiresAt on
// the existing row instead of appending. SharedAt is set once at creation and
// survives refreshes. Expired rows are never deleted automatically; they are
// only excluded from visibility.
type CompoundShare struct {
	BaseModel

	CompoundID string    `gorm:"type:uuid;not null;uniqueIndex:idx_compound_share_grantee,priority:1;index" json:"compound_id"`
	Compound   *Compound `gorm:"foreignKey:CompoundID" json:"compound,omitempty"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_compound_share_grantee,priority:2" json:"user_id"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	SharedAt  time.Time  `gorm:"not null" json:"shared_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// IsActiveAt reports whether the share grants access at the supplied time.
// A nil expiration never lapses; otherwise the share is active up to and
// including the expiration instant.
func (s *CompoundShare) IsActiveAt(t time.Time) bool {
	if s.ExpiresAt == nil {
		return true
	}
	return !t.After(*s.ExpiresAt)
}

// HasExpiredAt is the complement of IsActiveAt, kept for serialization.
func (s *CompoundShare) HasExpiredAt(t time.Time) bool {
	return !s.IsActiveAt(t)
}

// BeforeSave validates share references.
func (s *CompoundShare) BeforeSave(tx *gorm.DB) error {
	s.CompoundID = strings.TrimSpace(s.CompoundID)
	if s.CompoundID == "" {
		return errors.New("compound_share: compound_id is required")
	}

	s.UserID = strings.TrimSpace(s.UserID)
	if s.UserID == "" {
		return errors.New("compound_share: user_id is required")
	}

	return nil
}
