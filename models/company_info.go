package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompanyInfo is the storefront's singleton display record. The table may
// be empty on a fresh deployment; readers fall back to defaults.
type CompanyInfo struct {
	gorm.Model

	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Tagline     string    `gorm:"type:text;not null"`
	Address     string    `gorm:"type:text;not null"`
	Phone       string    `gorm:"type:varchar(64);not null"`
	Email       string    `gorm:"type:varchar(255);not null"`
	OpeningInfo string    `gorm:"type:text;not null"`
}

func (c *CompanyInfo) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
