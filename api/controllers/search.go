package controllers

import (
	"net/http"

	"github.com/kiranakart/kiranakart-backend/api/responses"
	"github.com/kiranakart/kiranakart-backend/api/validators"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

type recordSearchRequest struct {
	Term string `json:"term" validate:"required,max=120"`
}

type searchHistoryPayload struct {
	Terms []string `json:"terms"`
}

// SearchHistory returns the signed-in shopper's recent search terms.
func SearchHistory(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ident, err := signedInAggregate(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		terms, err := sess.Prefs.SearchHistory(r.Context(), ident)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, searchHistoryPayload{Terms: terms})
	}
}

// SearchRecord stores a search term and returns the updated history.
func SearchRecord(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recordSearchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, ident, err := signedInAggregate(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		terms, err := sess.Prefs.RecordSearch(r.Context(), ident, body.Term)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, searchHistoryPayload{Terms: terms})
	}
}

// SearchClear wipes the signed-in shopper's search history.
func SearchClear(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ident, err := signedInAggregate(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sess.Prefs.ClearSearchHistory(r.Context(), ident); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, searchHistoryPayload{Terms: nil})
	}
}

// signedInAggregate resolves the aggregate and requires a signed-in session.
func signedInAggregate(r *http.Request, registry *storefront.Registry) (*storefront.Session, string, error) {
	sess, err := aggregateFor(r, registry)
	if err != nil {
		return nil, "", err
	}
	ident := sess.Auth.Identity()
	if ident == nil {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}
	return sess, ident.ID.String(), nil
}
