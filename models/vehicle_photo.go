package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehiclePhoto references an image stored in the object bucket.
// At most one photo per vehicle carries IsPrimary; the flag is rewritten
// transactionally so the invariant holds at write time.
type VehiclePhoto struct {
	gorm.Model

	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	VehicleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	URL          string    `gorm:"type:text;not null"`
	ThumbnailURL string    `gorm:"type:text;not null"`
	IsPrimary    bool      `gorm:"not null;default:false"`
	Position     int       `gorm:"type:integer;not null;default:0"`
}

func (p *VehiclePhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
