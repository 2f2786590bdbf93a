package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/pagination"
)

func testShops(n int) []models.Shop {
	base := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	shops := make([]models.Shop, 0, n)
	for i := 0; i < n; i++ {
		shops = append(shops, models.Shop{
			ID:        uuid.New(),
			Name:      "Shop",
			Area:      "Anantapur",
			IsActive:  true,
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		})
	}
	return shops
}

func TestListShopsPaginates(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{shops: testShops(5)}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	page, err := svc.ListShops(context.Background(), pagination.Params{Limit: 3})
	if err != nil {
		t.Fatalf("list shops: %v", err)
	}
	if len(page.Shops) != 3 {
		t.Fatalf("expected 3 shops, got %d", len(page.Shops))
	}
	if page.NextCursor == "" {
		t.Fatalf("expected next cursor with more rows available")
	}

	cursor, err := pagination.ParseCursor(page.NextCursor)
	if err != nil || cursor == nil {
		t.Fatalf("next cursor must decode: %v", err)
	}
	if cursor.ID != page.Shops[2].ID {
		t.Fatalf("cursor must point at the last returned row")
	}
}

func TestListShopsLastPageHasNoCursor(t *testing.T) {
	t.Parallel()

	repo := &stubRepo{shops: testShops(2)}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	page, err := svc.ListShops(context.Background(), pagination.Params{Limit: 5})
	if err != nil {
		t.Fatalf("list shops: %v", err)
	}
	if len(page.Shops) != 2 || page.NextCursor != "" {
		t.Fatalf("expected full page with no cursor, got %+v", page)
	}
}

func TestGetShopNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetShop(context.Background(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListProductsRequiresShop(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubRepo{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.ListProducts(context.Background(), uuid.New(), pagination.Params{})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown shop, got %v", err)
	}
}

func TestGetProductProjection(t *testing.T) {
	t.Parallel()

	product := models.Product{
		ID:        uuid.New(),
		ShopID:    uuid.New(),
		Name:      "Rice 1kg",
		Unit:      enums.ProductUnitKilogram,
		UnitPrice: decimal.RequireFromString("55.00"),
		InStock:   true,
		IsActive:  true,
	}
	svc, err := NewService(&stubRepo{products: []models.Product{product}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	view, err := svc.GetProduct(context.Background(), product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if view.Name != "Rice 1kg" || !view.UnitPrice.Equal(product.UnitPrice) || !view.InStock {
		t.Fatalf("unexpected projection %+v", view)
	}
}

type stubRepo struct {
	shops    []models.Shop
	products []models.Product
}

func (s *stubRepo) ListShops(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Shop, error) {
	rows := s.shops
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubRepo) FindShop(ctx context.Context, id uuid.UUID) (*models.Shop, error) {
	for i := range s.shops {
		if s.shops[i].ID == id {
			return &s.shops[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) ListProducts(ctx context.Context, shopID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	var rows []models.Product
	for _, p := range s.products {
		if p.ShopID == shopID {
			rows = append(rows, p)
		}
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *stubRepo) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			return &s.products[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
