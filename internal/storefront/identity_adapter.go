package storefront

import (
	"context"
	"fmt"

	"github.com/kiranakart/kiranakart-backend/internal/identity"
	sessionstore "github.com/kiranakart/kiranakart-backend/internal/session"
	pkgauth "github.com/kiranakart/kiranakart-backend/pkg/auth"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
)

// identityAdapter exposes the identity service through the narrow provider
// surface the session store consumes.
type identityAdapter struct {
	svc    identity.Service
	jwtCfg config.JWTConfig
}

func newIdentityAdapter(svc identity.Service, jwtCfg config.JWTConfig) (*identityAdapter, error) {
	if svc == nil {
		return nil, fmt.Errorf("identity service is required")
	}
	return &identityAdapter{svc: svc, jwtCfg: jwtCfg}, nil
}

func (a *identityAdapter) CreateAccount(ctx context.Context, email, password, fullName string) (*sessionstore.Identity, error) {
	resp, err := a.svc.Register(ctx, identity.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		return nil, err
	}
	return toIdentity(resp), nil
}

func (a *identityAdapter) Authenticate(ctx context.Context, email, password string) (*sessionstore.Identity, error) {
	resp, err := a.svc.Login(ctx, identity.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return toIdentity(resp), nil
}

// EndSession revokes the refresh session keyed by the token's JTI. An
// unparseable token still ends the local session.
func (a *identityAdapter) EndSession(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(a.jwtCfg, accessToken)
	if err != nil {
		return nil
	}
	return a.svc.Logout(ctx, claims.ID)
}

func toIdentity(resp *identity.AuthResponse) *sessionstore.Identity {
	return &sessionstore.Identity{
		ID:           resp.User.ID,
		Email:        resp.User.Email,
		FullName:     resp.User.FullName,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}
}
