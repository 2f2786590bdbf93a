package controllers

import (
	"net/http"

	"github.com/kiranakart/kiranakart-backend/api/responses"
	"github.com/kiranakart/kiranakart-backend/api/validators"
	"github.com/kiranakart/kiranakart-backend/internal/location"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

type locationFixRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

type locationStatePayload struct {
	location.View
	AcquisitionTimeoutSeconds int `json:"acquisition_timeout_seconds"`
	MaxFixAgeSeconds          int `json:"max_fix_age_seconds"`
}

// LocationFix resolves a browser-provided fix through the resolver chain
// and returns the availability decision.
func LocationFix(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body locationFixRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sess.Location.ResolveFix(r.Context(), *body.Latitude, *body.Longitude))
	}
}

// LocationDenied records that the shopper declined the permission prompt.
func LocationDenied(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sess.Location.MarkDenied())
	}
}

// LocationUnavailable records that geolocation never produced a fix.
func LocationUnavailable(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sess.Location.MarkUnavailable())
	}
}

// LocationState returns the current location view plus the acquisition
// parameters the browser should use when requesting a fix.
func LocationState(registry *storefront.Registry, cfg config.LocationConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, locationStatePayload{
			View:                      sess.Location.State(),
			AcquisitionTimeoutSeconds: int(cfg.AcquisitionTimeout.Seconds()),
			MaxFixAgeSeconds:          int(cfg.MaxFixAge.Seconds()),
		})
	}
}
