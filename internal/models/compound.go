package models

import (
	"errors"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Compound is a named chemical record with an opaque structural encoding.
// The owner is set at creation and never changes; deleting the compound
// removes its share rows in the same transaction (see CompoundService).
type Compound struct {
	BaseModel

	Name    string `gorm:"not null;index" json:"name"`
	Smiles  string `gorm:"not null" json:"smiles"`
	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner   *User  `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`

	// Properties holds optional computed or annotated chemical properties.
	Properties datatypes.JSON `json:"properties,omitempty"`

	Shares []CompoundShare `gorm:"foreignKey:CompoundID" json:"shares,omitempty"`
}

// BeforeSave validates required compound fields.
func (c *Compound) BeforeSave(tx *gorm.DB) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.New("compound: name is required")
	}

	c.Smiles = strings.TrimSpace(c.Smiles)
	if c.Smiles == "" {
		return errors.New("compound: smiles is required")
	}

	if strings.TrimSpace(c.OwnerID) == "" {
		return errors.New("compound: owner_id is required")
	}

	return nil
}
