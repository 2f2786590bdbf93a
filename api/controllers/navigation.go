package controllers

import (
	"net/http"

	"github.com/kiranakart/kiranakart-backend/api/responses"
	"github.com/kiranakart/kiranakart-backend/api/validators"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

type navigateRequest struct {
	Page string `json:"page" validate:"required"`
}

// Navigate runs the requested page through the gating policy and returns
// where the browser should actually go.
func Navigate(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body navigateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := enums.ParsePage(body.Page)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown page"))
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sess.Nav.Navigate(page))
	}
}

// NavigateResume replays the remembered target through the same policy
// after a sign-in or profile save.
func NavigateResume(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sess.Nav.Resume())
	}
}
