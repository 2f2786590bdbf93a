package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kiranakart-backend/pkg/enums"
)

// Product is a single catalog listing owned by one shop.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ShopID      uuid.UUID         `gorm:"column:shop_id;type:uuid;not null;index"`
	Name        string            `gorm:"column:name;not null"`
	Description string            `gorm:"column:description;not null;default:''"`
	Unit        enums.ProductUnit `gorm:"column:unit;type:text;not null"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric(10,2);not null"`
	ImageRef    string            `gorm:"column:image_ref;not null;default:''"`
	InStock     bool              `gorm:"column:in_stock;not null;default:true"`
	IsActive    bool              `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
