package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
)

// SeedDemoCatalog inserts a small demo catalog for local development. It is
// a no-op when the shops table already has rows.
func SeedDemoCatalog(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Shop{}).Count(&count).Error; err != nil {
		return fmt.Errorf("counting shops: %w", err)
	}
	if count > 0 {
		return nil
	}

	shop := &models.Shop{
		ID:          uuid.New(),
		Name:        "Sri Venkateswara Kirana",
		Description: "Groceries and daily essentials",
		Area:        "Ramagiri",
		AddressLine: "Main Bazaar Road, Ramagiri",
	}

	products := []models.Product{
		{
			ID:        uuid.New(),
			ShopID:    shop.ID,
			Name:      "Sona Masoori Rice",
			Unit:      enums.ProductUnitKilogram,
			UnitPrice: decimal.NewFromFloat(58.00),
			InStock:   true,
			IsActive:  true,
		},
		{
			ID:        uuid.New(),
			ShopID:    shop.ID,
			Name:      "Toor Dal",
			Unit:      enums.ProductUnitKilogram,
			UnitPrice: decimal.NewFromFloat(145.00),
			InStock:   true,
			IsActive:  true,
		},
		{
			ID:        uuid.New(),
			ShopID:    shop.ID,
			Name:      "Groundnut Oil 1L",
			Unit:      enums.ProductUnitPiece,
			UnitPrice: decimal.NewFromFloat(185.00),
			InStock:   true,
			IsActive:  true,
		},
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(shop).Error; err != nil {
			return fmt.Errorf("seeding shop: %w", err)
		}
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("seeding products: %w", err)
		}
		return nil
	})
}
