package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/pagination"
)

// Service defines the behavior needed by the orders controller.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*View, error)
}

// ItemView is one snapshotted order line.
type ItemView struct {
	ProductID uuid.UUID         `json:"product_id"`
	Name      string            `json:"name"`
	Unit      enums.ProductUnit `json:"unit"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	LineTotal decimal.Decimal   `json:"line_total"`
	ImageRef  string            `json:"image_ref,omitempty"`
}

// View is the caller-facing projection of an order.
type View struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	ShopID        uuid.UUID           `json:"shop_id"`
	Status        enums.OrderStatus   `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	PlatformFee   decimal.Decimal     `json:"platform_fee"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Total         decimal.Decimal     `json:"total"`
	ContactName   string              `json:"contact_name"`
	ContactPhone  string              `json:"contact_phone"`
	AddressLine   string              `json:"address_line"`
	City          string              `json:"city"`
	Pincode       string              `json:"pincode"`
	Items         []ItemView          `json:"items"`
	PlacedAt      time.Time           `json:"placed_at"`
}

// Page is one page of orders plus the cursor for the next one.
type Page struct {
	Orders     []View `json:"orders"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type repository interface {
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	FindByID(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	repo repository
}

// NewService constructs an orders service with the provided repository.
func NewService(repo repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*Page, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.ListByUser(ctx, userID, cursor, pagination.LimitWithBuffer(params.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}

	page := &Page{Orders: make([]View, 0, len(rows))}
	if len(rows) > limit {
		last := rows[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		rows = rows[:limit]
	}
	for i := range rows {
		page.Orders = append(page.Orders, Project(&rows[i]))
	}
	return page, nil
}

func (s *service) Get(ctx context.Context, userID, orderID uuid.UUID) (*View, error) {
	row, err := s.repo.FindByID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	view := Project(row)
	return &view, nil
}

// Project converts an order row into the caller-facing view.
func Project(row *models.Order) View {
	items := make([]ItemView, 0, len(row.Items))
	for _, item := range row.Items {
		items = append(items, ItemView{
			ProductID: item.ProductID,
			Name:      item.Name,
			Unit:      item.Unit,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
			ImageRef:  item.ImageRef,
		})
	}
	return View{
		ID:            row.ID,
		OrderNumber:   row.OrderNumber,
		ShopID:        row.ShopID,
		Status:        row.Status,
		PaymentMethod: row.PaymentMethod,
		Subtotal:      row.Subtotal,
		PlatformFee:   row.PlatformFee,
		DeliveryFee:   row.DeliveryFee,
		Total:         row.Total,
		ContactName:   row.ContactName,
		ContactPhone:  row.ContactPhone,
		AddressLine:   row.AddressLine,
		City:          row.City,
		Pincode:       row.Pincode,
		Items:         items,
		PlacedAt:      row.CreatedAt,
	}
}
