package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FuelType is a lookup entity (essence, diesel, hybride, ...).
type FuelType struct {
	gorm.Model

	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255);not null;unique"`
}

func (f *FuelType) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
