package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
	"github.com/kiranakart/kiranakart-backend/pkg/pagination"
)

// Repository exposes catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListShops returns active shops newest-first with keyset pagination. The
// caller passes a buffered limit to detect the next page.
func (r *Repository) ListShops(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Shop, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Shop
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindShop loads one active shop.
func (r *Repository) FindShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	var row models.Shop
	if err := r.db.WithContext(ctx).
		First(&row, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ListProducts returns a shop's active products newest-first with keyset
// pagination.
func (r *Repository) ListProducts(ctx context.Context, shopID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	query := r.db.WithContext(ctx).
		Where("shop_id = ? AND is_active = ?", shopID, true).
		Order("created_at DESC, id DESC").
		Limit(limit)
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindProduct loads one active product.
func (r *Repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var row models.Product
	if err := r.db.WithContext(ctx).
		First(&row, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
