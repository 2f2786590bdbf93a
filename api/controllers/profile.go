package controllers

import (
	"net/http"

	"github.com/kiranakart/kiranakart-backend/api/responses"
	"github.com/kiranakart/kiranakart-backend/api/validators"
	"github.com/kiranakart/kiranakart-backend/internal/profile"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

type profileUpdatePayload struct {
	Profile *profile.View `json:"profile"`
}

// ProfileGet returns the delivery profile of the authenticated user.
func ProfileGet(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ProfileUpdate saves the delivery profile, then refreshes the browser
// session's completeness sub-state so a remembered checkout target can arm
// its resume.
func ProfileUpdate(svc profile.Service, registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body profile.UpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// only refresh the aggregate when this browser session is signed in
		// as the same user
		if ident := sess.Auth.Identity(); ident != nil && ident.ID == userID {
			if err := sess.Auth.LoadProfile(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccess(w, profileUpdatePayload{Profile: view})
	}
}
