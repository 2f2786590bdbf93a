package storefront

import (
	"context"
	"fmt"

	"github.com/kiranakart/kiranakart-backend/internal/cart"
	"github.com/kiranakart/kiranakart-backend/internal/location"
	"github.com/kiranakart/kiranakart-backend/internal/navigation"
	sessionstore "github.com/kiranakart/kiranakart-backend/internal/session"
	"github.com/kiranakart/kiranakart-backend/pkg/metrics"
	"github.com/kiranakart/kiranakart-backend/pkg/storage"
)

// Session is the aggregate behind one browser session: the four state
// machines wired together through observers. The session store drives the
// cart watcher and the navigation controller; the cart and location gate
// are read by navigation and checkout.
type Session struct {
	ID       string
	Auth     *sessionstore.Store
	Cart     *cart.Store
	Nav      *navigation.Controller
	Location *location.Gate
	Prefs    *Prefs
}

// newSession builds and wires one aggregate. The blob store is already
// scoped to the client session id, so the cart rehydrates the right copy.
func newSession(ctx context.Context, id string, provider sessionstore.IdentityProvider, profiles sessionstore.ProfileLoader, blob storage.Store, allowList []string, chain []location.NamedResolver, rec *metrics.StorefrontMetrics) (*Session, error) {
	auth, err := sessionstore.NewStore(provider, profiles)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	basket, err := cart.NewStore(ctx, blob, rec)
	if err != nil {
		return nil, fmt.Errorf("cart store: %w", err)
	}

	nav, err := navigation.NewController(auth, rec)
	if err != nil {
		return nil, fmt.Errorf("navigation controller: %w", err)
	}

	gate, err := location.NewGate(allowList, chain, rec)
	if err != nil {
		return nil, fmt.Errorf("location gate: %w", err)
	}

	auth.Subscribe(basket.ObserveSession)
	auth.Subscribe(nav.ObserveSession)

	return &Session{
		ID:       id,
		Auth:     auth,
		Cart:     basket,
		Nav:      nav,
		Location: gate,
		Prefs:    newPrefs(blob),
	}, nil
}
