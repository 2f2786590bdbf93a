package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranakart/kiranakart-backend/api/middleware"
	"github.com/kiranakart/kiranakart-backend/internal/cart"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
)

// aggregateFor resolves the per-browser-session aggregate for the request.
// The client session middleware guarantees an id is present on every route
// that reaches here.
func aggregateFor(r *http.Request, registry *storefront.Registry) (*storefront.Session, error) {
	id := middleware.ClientSessionFromContext(r.Context())
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "client session missing")
	}
	sess, err := registry.Get(r.Context(), id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load storefront session")
	}
	return sess, nil
}

// currentUserID extracts the authenticated user id seeded by the auth
// middleware.
func currentUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

type cartView struct {
	ShopID     *uuid.UUID      `json:"shop_id,omitempty"`
	Items      []cart.Line     `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Notice     string          `json:"notice,omitempty"`
	ReviewCart bool            `json:"review_cart,omitempty"`
}

func cartPayload(sess *storefront.Session) cartView {
	items, shopID := sess.Cart.Snapshot()
	return cartView{
		ShopID:     shopID,
		Items:      items,
		TotalItems: sess.Cart.TotalItems(),
		TotalPrice: sess.Cart.TotalPrice(),
	}
}
