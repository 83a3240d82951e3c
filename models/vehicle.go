package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle is one catalog listing: specs, rental price, photos and the
// admin-assigned ordering used on the home page.
// Lookup references are nullable because historical data was hand-entered
// and not every row carries all three.
type Vehicle struct {
	gorm.Model

	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Year               int        `gorm:"type:integer;not null"`
	BrandID            *uuid.UUID `gorm:"type:uuid;index"`
	ModelName          string     `gorm:"type:varchar(255);not null"`
	FuelTypeID         *uuid.UUID `gorm:"type:uuid;index"`
	TransmissionTypeID *uuid.UUID `gorm:"type:uuid;index"`
	DailyPrice         int64      `gorm:"type:bigint;not null;default:0"`
	Mileage            *int64     `gorm:"type:bigint"`
	Description        string     `gorm:"type:text;not null"`
	DisplayOrder       int        `gorm:"type:integer;not null;default:0"`

	Brand            *Brand
	FuelType         *FuelType
	TransmissionType *TransmissionType
	Photos           []VehiclePhoto `gorm:"constraint:OnDelete:CASCADE"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
