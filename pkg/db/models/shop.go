package models

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a local kirana shop listed on the storefront.
type Shop struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	Area        string    `gorm:"column:area;not null"`
	AddressLine string    `gorm:"column:address_line;not null;default:''"`
	ImageRef    string    `gorm:"column:image_ref;not null;default:''"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
