package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brand is a lookup entity providing the display name for a vehicle's make.
type Brand struct {
	gorm.Model

	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255);not null;unique"`
}

func (b *Brand) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
