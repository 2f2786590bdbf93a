package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the delivery-relevant personal data attached to an identity.
// Completeness is never stored; it is recomputed from the field values on
// every read.
type Profile struct {
	IdentityID uuid.UUID `gorm:"column:identity_id;type:uuid;primaryKey"`
	FullName   string    `gorm:"column:full_name;not null;default:''"`
	Phone      string    `gorm:"column:phone;not null;default:''"`
	Address    string    `gorm:"column:address;not null;default:''"`
	City       string    `gorm:"column:city;not null;default:''"`
	Pincode    string    `gorm:"column:pincode;not null;default:''"`
	Email      string    `gorm:"column:email;not null;default:''"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
