package checkout

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kiranakart-backend/internal/cart"
	"github.com/kiranakart/kiranakart-backend/internal/orders"
	"github.com/kiranakart/kiranakart-backend/internal/profile"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
	"github.com/kiranakart/kiranakart-backend/pkg/db/models"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
)

// CartAccess is the slice of the cart store checkout needs: a consistent
// snapshot to submit, and a clear on success.
type CartAccess interface {
	Snapshot() ([]cart.Line, *uuid.UUID)
	Clear(ctx context.Context, reason cart.ClearReason) error
}

// Service turns a non-empty cart plus a complete profile into a persisted
// order. Payment is intent only; no gateway is involved.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, basket CartAccess, method enums.PaymentMethod) (*orders.View, error)
}

type orderSink interface {
	Create(ctx context.Context, order *models.Order) error
}

type profileLoader interface {
	Get(ctx context.Context, identityID uuid.UUID) (*profile.View, error)
}

// Recorder hears about checkout submissions; the prometheus wrapper
// satisfies it.
type Recorder interface {
	IncCheckoutSubmission(result string)
	ObserveCheckoutDuration(duration time.Duration)
}

type service struct {
	sink        orderSink
	profiles    profileLoader
	platformFee decimal.Decimal
	deliveryFee decimal.Decimal
	metrics     Recorder
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	OrderSink   orderSink
	ProfileRepo profileLoader
	Config      config.CheckoutConfig
	Metrics     Recorder
}

// NewService constructs a checkout service. The fee strings come from
// config and must parse as decimals.
func NewService(params ServiceParams) (Service, error) {
	if params.OrderSink == nil {
		return nil, fmt.Errorf("order sink is required")
	}
	if params.ProfileRepo == nil {
		return nil, fmt.Errorf("profile repository is required")
	}
	platformFee, err := decimal.NewFromString(params.Config.PlatformFee)
	if err != nil {
		return nil, fmt.Errorf("invalid platform fee %q: %w", params.Config.PlatformFee, err)
	}
	deliveryFee, err := decimal.NewFromString(params.Config.DeliveryFee)
	if err != nil {
		return nil, fmt.Errorf("invalid delivery fee %q: %w", params.Config.DeliveryFee, err)
	}
	return &service{
		sink:        params.OrderSink,
		profiles:    params.ProfileRepo,
		platformFee: platformFee,
		deliveryFee: deliveryFee,
		metrics:     params.Metrics,
	}, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, basket CartAccess, method enums.PaymentMethod) (*orders.View, error) {
	started := time.Now()
	view, err := s.submit(ctx, userID, basket, method)
	if s.metrics != nil {
		s.metrics.ObserveCheckoutDuration(time.Since(started))
		if err != nil {
			s.metrics.IncCheckoutSubmission("rejected")
		} else {
			s.metrics.IncCheckoutSubmission("placed")
		}
	}
	return view, err
}

func (s *service) submit(ctx context.Context, userID uuid.UUID, basket CartAccess, method enums.PaymentMethod) (*orders.View, error) {
	if basket == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method")
	}

	lines, shopID := basket.Snapshot()
	if len(lines) == 0 || shopID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
	}

	prof, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !prof.IsComplete {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "delivery profile is incomplete")
	}

	orderNumber, err := newOrderNumber(time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}

	orderID := uuid.New()
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			ShopID:    line.ShopID,
			Name:      line.Name,
			Unit:      line.Unit,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
			ImageRef:  line.ImageRef,
		})
	}

	order := &models.Order{
		ID:            orderID,
		OrderNumber:   orderNumber,
		UserID:        userID,
		ShopID:        *shopID,
		Status:        enums.OrderStatusPlaced,
		PaymentMethod: method,
		Subtotal:      subtotal,
		PlatformFee:   s.platformFee,
		DeliveryFee:   s.deliveryFee,
		Total:         subtotal.Add(s.platformFee).Add(s.deliveryFee),
		ContactName:   prof.FullName,
		ContactPhone:  prof.Phone,
		AddressLine:   prof.Address,
		City:          prof.City,
		Pincode:       prof.Pincode,
		Items:         items,
	}

	if err := s.sink.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	if err := basket.Clear(ctx, cart.ClearReasonCheckout); err != nil {
		// the order is placed; a failed blob wipe only risks a stale cart
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart after checkout")
	}

	projected := orders.Project(order)
	return &projected, nil
}

// newOrderNumber builds the human-readable order number, a date stamp plus
// a random 4-digit suffix: KK-260831-0042.
func newOrderNumber(now time.Time) (string, error) {
	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("KK-%s-%04d", now.Format("060102"), suffix.Int64()), nil
}
