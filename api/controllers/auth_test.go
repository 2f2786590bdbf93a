package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kiranakart/kiranakart-backend/api/middleware"
	"github.com/kiranakart/kiranakart-backend/internal/identity"
	"github.com/kiranakart/kiranakart-backend/internal/profile"
	"github.com/kiranakart/kiranakart-backend/internal/storefront"
	pkgauth "github.com/kiranakart/kiranakart-backend/pkg/auth"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
	"github.com/kiranakart/kiranakart-backend/pkg/storage"
)

func logoutJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "test", ExpirationMinutes: 15}
}

func logoutRegistry(t *testing.T, svc identity.Service, jwtCfg config.JWTConfig) *storefront.Registry {
	t.Helper()

	registry, err := storefront.NewRegistry(storefront.RegistryParams{
		Identity: svc,
		Profiles: stubProfileService{},
		Blobs: func(string) (storage.Store, error) {
			return storage.NewMemoryStore(), nil
		},
		JWTConfig: jwtCfg,
		Location:  config.LocationConfig{ServiceAreas: []string{"Ramagiri"}},
		Logger:    logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return registry
}

func logoutRequest(t *testing.T, token string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithClientSession(req.Context(), uuid.NewString()))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthLogoutRevokesBearerSessionOnFreshAggregate(t *testing.T) {
	t.Parallel()

	jwtCfg := logoutJWTConfig()
	svc := &stubIdentityService{}
	registry := logoutRegistry(t, svc, jwtCfg)
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})

	token, err := pkgauth.MintAccessToken(jwtCfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		JTI:    "access-123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := httptest.NewRecorder()
	AuthLogout(registry, svc, jwtCfg, logg)(w, logoutRequest(t, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := svc.logoutCalls(); len(got) != 1 || got[0] != "access-123" {
		t.Fatalf("expected the bearer session revoked, got %v", got)
	}
}

func TestAuthLogoutWithoutTokenSkipsRevocation(t *testing.T) {
	t.Parallel()

	jwtCfg := logoutJWTConfig()
	svc := &stubIdentityService{}
	registry := logoutRegistry(t, svc, jwtCfg)
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})

	w := httptest.NewRecorder()
	AuthLogout(registry, svc, jwtCfg, logg)(w, logoutRequest(t, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := svc.logoutCalls(); len(got) != 0 {
		t.Fatalf("expected no revocation without a token, got %v", got)
	}
}

func TestAuthLogoutIgnoresForeignToken(t *testing.T) {
	t.Parallel()

	jwtCfg := logoutJWTConfig()
	svc := &stubIdentityService{}
	registry := logoutRegistry(t, svc, jwtCfg)
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("error")})

	// signed with a different secret: parse fails, nothing to revoke
	foreign, err := pkgauth.MintAccessToken(
		config.JWTConfig{Secret: "other-secret", Issuer: "test", ExpirationMinutes: 15},
		time.Now(),
		pkgauth.AccessTokenPayload{UserID: uuid.New(), JTI: "foreign-1"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	w := httptest.NewRecorder()
	AuthLogout(registry, svc, jwtCfg, logg)(w, logoutRequest(t, foreign))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := svc.logoutCalls(); len(got) != 0 {
		t.Fatalf("expected no revocation for an unverifiable token, got %v", got)
	}
}

type stubIdentityService struct {
	mu        sync.Mutex
	loggedOut []string
}

func (s *stubIdentityService) Register(context.Context, identity.RegisterRequest) (*identity.AuthResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubIdentityService) Login(context.Context, identity.LoginRequest) (*identity.AuthResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubIdentityService) Refresh(context.Context, string, string) (*identity.RefreshResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubIdentityService) Logout(_ context.Context, accessID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

func (s *stubIdentityService) logoutCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.loggedOut...)
}

type stubProfileService struct{}

func (stubProfileService) Get(context.Context, uuid.UUID) (*profile.View, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
}

func (stubProfileService) Update(context.Context, uuid.UUID, profile.UpdateRequest) (*profile.View, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}
