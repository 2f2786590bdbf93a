package controllers

import (
	"net/http"

	"github.com/kiranakart/kiranakart-backend/api/responses"
	"github.com/kiranakart/kiranakart-backend/api/validators"
	checkoutsvc "github.com/kiranakart/kiranakart-backend/internal/checkout"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// Checkout submits the browser session's cart as an order. The checkout
// service enforces the non-empty cart and complete profile preconditions.
func Checkout(registry *storefront.Registry, svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(body.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown payment method"))
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Submit(r.Context(), userID, sess.Cart, method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}
