package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransmissionType is a lookup entity (manuelle, automatique, ...).
type TransmissionType struct {
	gorm.Model

	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"type:varchar(255);not null;unique"`
}

func (t *TransmissionType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
