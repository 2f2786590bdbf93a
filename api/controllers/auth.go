package controllers

import (
	"net/http"
	"strings"

	"github.com/kiranakart/kiranakart-backend/api/responses"
	"github.com/kiranakart/kiranakart-backend/api/validators"
	"github.com/kiranakart/kiranakart-backend/internal/identity"
	"github.com/kiranakart/kiranakart-backend/internal/navigation"
	sessionstore "github.com/kiranakart/kiranakart-backend/internal/session"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	pkgauth "github.com/kiranakart/kiranakart-backend/pkg/auth"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
)

type authSessionPayload struct {
	User         identity.UserSummary `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	ExpiresIn    int                  `json:"expires_in"`
	SessionState sessionstore.State   `json:"session_state"`
	Resume       navigation.Decision  `json:"resume"`
	ShowWelcome  bool                 `json:"show_welcome"`
}

type refreshRequest struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthRegister creates the account through the browser session's own state
// machine, so the cart watcher and navigation controller hear the
// transitions, then resumes whatever the shopper was doing.
func AuthRegister(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body identity.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ident, err := sess.Auth.SignUp(r.Context(), body.Email, body.Password, body.FullName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sessionPayload(r, sess, ident, logg))
	}
}

// AuthLogin authenticates through the browser session's state machine.
func AuthLogin(registry *storefront.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body identity.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ident, err := sess.Auth.SignIn(r.Context(), body.Email, body.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, sessionPayload(r, sess, ident, logg))
	}
}

// AuthLogout ends the session; the subscribed observers clear the cart and
// wipe any remembered navigation target. An evicted aggregate holds no
// identity, but the browser still carries a live bearer token naming the
// redis session, so that session is revoked directly before the local
// sign-out.
func AuthLogout(registry *storefront.Registry, svc identity.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := aggregateFor(r, registry)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if sess.Auth.Identity() == nil {
			if err := revokeBearerSession(r, svc, jwtCfg); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		if err := sess.Auth.SignOut(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"status": "signed_out",
			"notice": sess.Cart.ConsumeNotice(),
		})
	}
}

// revokeBearerSession revokes the refresh session named by the request's
// bearer token. A missing or unparseable token is not an error: there is
// nothing server-side left to revoke.
func revokeBearerSession(r *http.Request, svc identity.Service, jwtCfg config.JWTConfig) error {
	if svc == nil {
		return nil
	}

	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	token := raw
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	if token == "" {
		return nil
	}

	claims, err := pkgauth.ParseAccessTokenAllowExpired(jwtCfg, token)
	if err != nil || claims.ID == "" {
		return nil
	}
	return svc.Logout(r.Context(), claims.ID)
}

// AuthRefresh rotates the refresh token pair. Stateless by design: it works
// even after the aggregate was evicted.
func AuthRefresh(svc identity.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "identity service unavailable"))
			return
		}

		var body refreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Refresh(r.Context(), body.AccessToken, body.RefreshToken)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func sessionPayload(r *http.Request, sess *storefront.Session, ident *sessionstore.Identity, logg *logger.Logger) authSessionPayload {
	return authSessionPayload{
		User: identity.UserSummary{
			ID:       ident.ID,
			Email:    ident.Email,
			FullName: ident.FullName,
		},
		AccessToken:  ident.AccessToken,
		RefreshToken: ident.RefreshToken,
		ExpiresIn:    ident.ExpiresIn,
		SessionState: sess.Auth.State(),
		Resume:       sess.Nav.Resume(),
		ShowWelcome:  consumeWelcome(r, sess, ident, logg),
	}
}

// consumeWelcome reports whether this is the identity's first sign-in on
// record and marks the welcome as seen. Storage trouble is logged and
// treated as "already seen" so auth never fails over a flag.
func consumeWelcome(r *http.Request, sess *storefront.Session, ident *sessionstore.Identity, logg *logger.Logger) bool {
	ctx := r.Context()
	seen, err := sess.Prefs.HasSeenWelcome(ctx, ident.ID.String())
	if err != nil {
		logg.Error(ctx, "failed to read welcome flag", err)
		return false
	}
	if seen {
		return false
	}
	if err := sess.Prefs.MarkWelcomeSeen(ctx, ident.ID.String()); err != nil {
		logg.Error(ctx, "failed to mark welcome seen", err)
	}
	return true
}
