package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/pagination"
)

// Service defines the behavior needed by the catalog controllers.
type Service interface {
	ListShops(ctx context.Context, params pagination.Params) (*ShopPage, error)
	GetShop(ctx context.Context, id uuid.UUID) (*ShopDetail, error)
	ListProducts(ctx context.Context, shopID uuid.UUID, params pagination.Params) (*ProductPage, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error)
}

// ShopSummary is the listing projection of a shop.
type ShopSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Area     string    `json:"area"`
	ImageRef string    `json:"image_ref,omitempty"`
}

// ShopDetail adds the fields shown on a shop's own page.
type ShopDetail struct {
	ShopSummary
	Description string `json:"description,omitempty"`
	AddressLine string `json:"address_line,omitempty"`
}

// ProductView is the storefront projection of a product.
type ProductView struct {
	ID        uuid.UUID         `json:"id"`
	ShopID    uuid.UUID         `json:"shop_id"`
	Name      string            `json:"name"`
	Unit      enums.ProductUnit `json:"unit"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	ImageRef  string            `json:"image_ref,omitempty"`
	InStock   bool              `json:"in_stock"`
}

// ShopPage is one page of shops plus the cursor for the next one.
type ShopPage struct {
	Shops      []ShopSummary `json:"shops"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ProductPage is one page of products plus the cursor for the next one.
type ProductPage struct {
	Products   []ProductView `json:"products"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

type repository interface {
	ListShops(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Shop, error)
	FindShop(ctx context.Context, id uuid.UUID) (*models.Shop, error)
	ListProducts(ctx context.Context, shopID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Product, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo repository
}

// NewService constructs a catalog service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListShops(ctx context.Context, params pagination.Params) (*ShopPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListShops(ctx, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list shops")
	}

	page := &ShopPage{Shops: make([]ShopSummary, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for _, row := range rows {
		page.Shops = append(page.Shops, ShopSummary{
			ID:       row.ID,
			Name:     row.Name,
			Area:     row.Area,
			ImageRef: row.ImageRef,
		})
	}
	return page, nil
}

func (s *service) GetShop(ctx context.Context, id uuid.UUID) (*ShopDetail, error) {
	row, err := s.repo.FindShop(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shop")
	}
	return &ShopDetail{
		ShopSummary: ShopSummary{
			ID:       row.ID,
			Name:     row.Name,
			Area:     row.Area,
			ImageRef: row.ImageRef,
		},
		Description: row.Description,
		AddressLine: row.AddressLine,
	}, nil
}

func (s *service) ListProducts(ctx context.Context, shopID uuid.UUID, params pagination.Params) (*ProductPage, error) {
	if _, err := s.repo.FindShop(ctx, shopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shop")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListProducts(ctx, shopID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	page := &ProductPage{Products: make([]ProductView, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for _, row := range rows {
		page.Products = append(page.Products, projectProduct(&row))
	}
	return page, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	row, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	view := projectProduct(row)
	return &view, nil
}

func projectProduct(row *models.Product) ProductView {
	return ProductView{
		ID:        row.ID,
		ShopID:    row.ShopID,
		Name:      row.Name,
		Unit:      row.Unit,
		UnitPrice: row.UnitPrice,
		ImageRef:  row.ImageRef,
		InStock:   row.InStock,
	}
}
