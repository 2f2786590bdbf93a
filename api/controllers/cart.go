package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kiranakart/kiranakart-backend/api/responses"
	"github.com/kiranakart/kiranakart-backend/api/validators"
	"github.com/kiranakart/kiranakart-backend/internal/cart"
	"github.com/kiranakart/kiranakart-backend/internal/catalog"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

type cartAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cartSwitchRequest struct {
	Token string `json:"token" validate:"required"`
}

type cartMutationPayload struct {
	SwitchPrompt *cart.SwitchPrompt `json:"switch_prompt,omitempty"`
	Cart         *cartView          `json:"cart,omitempty"`
}

// CartFetch returns the cart with its one-shot flags. Reading the cart is
// what the cart page does, so the pending notice and the review flag are
// consumed here.
func CartFetch(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := cartPayload(sess)
		view.Notice = sess.Cart.ConsumeNotice()
		view.ReviewCart = sess.Nav.ConsumeReviewFlag()
		responses.WriteSuccess(w, view)
	}
}

// CartAdd looks the product up in the catalog and adds a snapshot of it to
// the cart. A cross-shop add returns the switch prompt instead of mutating.
func CartAdd(registry *storefront.Registry, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogSvc.GetProduct(r.Context(), body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.InStock {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock"))
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		prompt, err := sess.Cart.AddItem(r.Context(), cart.Product{
			ProductID: product.ID,
			ShopID:    product.ShopID,
			Name:      product.Name,
			Unit:      product.Unit,
			UnitPrice: product.UnitPrice,
			ImageRef:  product.ImageRef,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if prompt != nil {
			responses.WriteSuccess(w, cartMutationPayload{SwitchPrompt: prompt})
			return
		}
		view := cartPayload(sess)
		responses.WriteSuccess(w, cartMutationPayload{Cart: &view})
	}
}

// CartSetQuantity sets a line's quantity; zero or below removes the line.
func CartSetQuantity(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Cart.SetQuantity(r.Context(), productID, body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := cartPayload(sess)
		responses.WriteSuccess(w, cartMutationPayload{Cart: &view})
	}
}

// CartRemoveItem deletes a line; removing an absent line is a no-op.
func CartRemoveItem(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Cart.RemoveItem(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := cartPayload(sess)
		responses.WriteSuccess(w, cartMutationPayload{Cart: &view})
	}
}

// CartClear empties the cart on explicit user action.
func CartClear(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Cart.Clear(r.Context(), cart.ClearReasonUser); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := cartPayload(sess)
		responses.WriteSuccess(w, cartMutationPayload{Cart: &view})
	}
}

// CartConfirmSwitch accepts the pending shop switch: the cart restarts with
// the product that triggered the prompt.
func CartConfirmSwitch(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartSwitchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Cart.ConfirmSwitch(r.Context(), body.Token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := cartPayload(sess)
		responses.WriteSuccess(w, cartMutationPayload{Cart: &view})
	}
}

// CartCancelSwitch declines the pending shop switch; the cart is untouched.
func CartCancelSwitch(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartSwitchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Cart.CancelSwitch(body.Token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view := cartPayload(sess)
		responses.WriteSuccess(w, cartMutationPayload{Cart: &view})
	}
}
