package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/kiranakart/kiranakart-backend/internal/profile"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
)

// State is one of the four session states.
type State string

const (
	StateAnonymous               State = "anonymous"
	StateAuthenticating          State = "authenticating"
	StateAuthenticatedIncomplete State = "authenticated_incomplete"
	StateAuthenticatedComplete   State = "authenticated_complete"
)

// IsAuthenticated reports whether the state carries an identity.
func (s State) IsAuthenticated() bool {
	return s == StateAuthenticatedIncomplete || s == StateAuthenticatedComplete
}

// Transition is delivered to observers on every state change.
type Transition struct {
	Prev State
	Next State
}

// Observer receives transitions in the order they occur.
type Observer func(Transition)

// Identity is what the identity provider hands back on success.
type Identity struct {
	ID           uuid.UUID
	Email        string
	FullName     string
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// IdentityProvider is the narrow surface the store needs from the auth
// backend. Errors come back already classified by taxonomy code.
type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password, fullName string) (*Identity, error)
	Authenticate(ctx context.Context, email, password string) (*Identity, error)
	EndSession(ctx context.Context, accessToken string) error
}

// ProfileLoader fetches the delivery profile for an identity.
type ProfileLoader interface {
	Get(ctx context.Context, identityID uuid.UUID) (*profile.View, error)
}

// Store is the single source of truth for who is signed in and whether
// their profile is usable for checkout. One Store serves one browser
// session; mutations are serialized by the mutex.
type Store struct {
	mu        sync.Mutex
	state     State
	identity  *Identity
	profile   *profile.View
	provider  IdentityProvider
	profiles  ProfileLoader
	observers []Observer
}

// NewStore constructs an anonymous session store.
func NewStore(provider IdentityProvider, profiles ProfileLoader) (*Store, error) {
	if provider == nil {
		return nil, fmt.Errorf("identity provider is required")
	}
	if profiles == nil {
		return nil, fmt.Errorf("profile loader is required")
	}
	return &Store{
		state:    StateAnonymous,
		provider: provider,
		profiles: profiles,
	}, nil
}

// Subscribe registers an observer for state transitions. Observers are
// invoked synchronously, outside the store lock, in registration order.
func (s *Store) Subscribe(obs Observer) {
	if obs == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// State returns the current session state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Identity returns the signed-in identity, or nil while anonymous.
func (s *Store) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return nil
	}
	copied := *s.identity
	return &copied
}

// Profile returns the loaded profile view, or nil.
func (s *Store) Profile() *profile.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	copied := *s.profile
	return &copied
}

// IsProfileComplete is recomputed from the current profile on every call;
// it never trusts a stored flag.
func (s *Store) IsProfileComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile != nil && s.profile.IsComplete
}

// SignUp creates an identity plus its initial profile record and moves the
// session to an authenticated state. Failures return the session to
// anonymous; nothing retries automatically.
func (s *Store) SignUp(ctx context.Context, email, password, fullName string) (*Identity, error) {
	return s.authenticate(ctx, func() (*Identity, error) {
		return s.provider.CreateAccount(ctx, email, password, fullName)
	})
}

// SignIn authenticates an existing identity.
func (s *Store) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return s.authenticate(ctx, func() (*Identity, error) {
		return s.provider.Authenticate(ctx, email, password)
	})
}

func (s *Store) authenticate(ctx context.Context, attempt func() (*Identity, error)) (*Identity, error) {
	s.transitionTo(StateAuthenticating, func() {})

	identity, err := attempt()
	if err != nil {
		s.transitionTo(StateAnonymous, func() {
			s.identity = nil
			s.profile = nil
		})
		return nil, err
	}

	view := s.fetchProfile(ctx, identity.ID)
	next := StateAuthenticatedIncomplete
	if view != nil && view.IsComplete {
		next = StateAuthenticatedComplete
	}
	s.transitionTo(next, func() {
		s.identity = identity
		s.profile = view
	})
	return identity, nil
}

// SignOut destroys the session. The observer side effects (cart clearing,
// resume-target wipe) hang off the delivered transition.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	identity := s.identity
	s.mu.Unlock()

	if identity != nil && identity.AccessToken != "" {
		if err := s.provider.EndSession(ctx, identity.AccessToken); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "end session")
		}
	}

	s.transitionTo(StateAnonymous, func() {
		s.identity = nil
		s.profile = nil
	})
	return nil
}

// LoadProfile refetches the profile for the current identity and
// recomputes the authenticated sub-state. Callable after a profile save to
// refresh completeness.
func (s *Store) LoadProfile(ctx context.Context) error {
	s.mu.Lock()
	identity := s.identity
	s.mu.Unlock()

	if identity == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}

	view := s.fetchProfile(ctx, identity.ID)
	next := StateAuthenticatedIncomplete
	if view != nil && view.IsComplete {
		next = StateAuthenticatedComplete
	}
	s.transitionTo(next, func() {
		s.profile = view
	})
	return nil
}

// fetchProfile loads the profile, treating a missing record as an empty
// (incomplete) profile rather than a failure.
func (s *Store) fetchProfile(ctx context.Context, identityID uuid.UUID) *profile.View {
	view, err := s.profiles.Get(ctx, identityID)
	if err != nil {
		return nil
	}
	return view
}

// transitionTo applies the mutation and state change under the lock, then
// notifies observers outside it. Observers only hear actual changes.
func (s *Store) transitionTo(next State, mutate func()) {
	s.mu.Lock()
	prev := s.state
	mutate()
	s.state = next
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	if prev == next {
		return
	}
	t := Transition{Prev: prev, Next: next}
	for _, obs := range observers {
		obs(t)
	}
}
