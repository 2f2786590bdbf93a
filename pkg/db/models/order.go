package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kiranakart-backend/pkg/enums"
)

// Order is the persisted record of a checkout submission: a snapshot of the
// cart lines plus delivery contact and the recorded payment intent.
type Order struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber   string              `gorm:"column:order_number;not null;uniqueIndex"`
	UserID        uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	ShopID        uuid.UUID           `gorm:"column:shop_id;type:uuid;not null"`
	Status        enums.OrderStatus   `gorm:"column:status;type:text;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	PlatformFee   decimal.Decimal     `gorm:"column:platform_fee;type:numeric(10,2);not null"`
	DeliveryFee   decimal.Decimal     `gorm:"column:delivery_fee;type:numeric(10,2);not null"`
	Total         decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	ContactName   string              `gorm:"column:contact_name;not null"`
	ContactPhone  string              `gorm:"column:contact_phone;not null"`
	AddressLine   string              `gorm:"column:address_line;not null"`
	City          string              `gorm:"column:city;not null"`
	Pincode       string              `gorm:"column:pincode;not null"`
	Items         []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem snapshots one cart line at the moment of checkout.
type OrderItem struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	ShopID    uuid.UUID         `gorm:"column:shop_id;type:uuid;not null"`
	Name      string            `gorm:"column:name;not null"`
	Unit      enums.ProductUnit `gorm:"column:unit;type:text;not null"`
	UnitPrice decimal.Decimal   `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity  int               `gorm:"column:quantity;not null"`
	LineTotal decimal.Decimal   `gorm:"column:line_total;type:numeric(10,2);not null"`
	ImageRef  string            `gorm:"column:image_ref;not null;default:''"`
}
