package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminAccount whitelists an identity-provider subject for back-office
// access. Presence of a row grants access; there is no role hierarchy.
type AdminAccount struct {
	gorm.Model

	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Subject string    `gorm:"type:text;not null;uniqueIndex:idx_admin_account_subject,where:deleted_at IS NULL"`
	Email   string    `gorm:"type:varchar(255);not null"`
}

func (a *AdminAccount) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
