package session

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/kiranakart/kiranakart-backend/internal/profile"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
)

func completeView(id uuid.UUID) *profile.View {
	return &profile.View{
		IdentityID: id,
		FullName:   "Asha Rao",
		Phone:      "9876543210",
		Address:    "12 Bazaar St",
		City:       "Anantapur",
		Pincode:    "515001",
		IsComplete: true,
	}
}

func newTestStore(t *testing.T, provider *stubProvider, profiles *stubProfiles) *Store {
	t.Helper()
	store, err := NewStore(provider, profiles)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestSignInTransitionsThroughAuthenticating(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	provider := &stubProvider{identity: &Identity{ID: id, AccessToken: "tok"}}
	profiles := &stubProfiles{view: completeView(id)}
	store := newTestStore(t, provider, profiles)

	var transitions []Transition
	store.Subscribe(func(tr Transition) { transitions = append(transitions, tr) })

	if _, err := store.SignIn(context.Background(), "asha@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	want := []Transition{
		{Prev: StateAnonymous, Next: StateAuthenticating},
		{Prev: StateAuthenticating, Next: StateAuthenticatedComplete},
	}
	if len(transitions) != len(want) {
		t.Fatalf("expected %d transitions, got %+v", len(want), transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transition %d: expected %+v, got %+v", i, want[i], transitions[i])
		}
	}
	if store.State() != StateAuthenticatedComplete {
		t.Fatalf("expected complete state, got %s", store.State())
	}
}

func TestSignInFailureReturnsToAnonymous(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	store := newTestStore(t, provider, &stubProfiles{})

	_, err := store.SignIn(context.Background(), "asha@example.com", "wrong")
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if store.State() != StateAnonymous {
		t.Fatalf("expected anonymous after failure, got %s", store.State())
	}
	if store.Identity() != nil {
		t.Fatalf("expected no identity after failure")
	}
}

func TestSignUpLandsIncompleteWithFreshProfile(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	provider := &stubProvider{identity: &Identity{ID: id}}
	profiles := &stubProfiles{view: &profile.View{IdentityID: id, FullName: "Asha Rao"}}
	store := newTestStore(t, provider, profiles)

	if _, err := store.SignUp(context.Background(), "asha@example.com", "a long password", "Asha Rao"); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if store.State() != StateAuthenticatedIncomplete {
		t.Fatalf("expected incomplete state, got %s", store.State())
	}
	if store.IsProfileComplete() {
		t.Fatalf("fresh profile must not be complete")
	}
}

func TestLoadProfilePromotesToComplete(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	provider := &stubProvider{identity: &Identity{ID: id}}
	profiles := &stubProfiles{view: &profile.View{IdentityID: id}}
	store := newTestStore(t, provider, profiles)

	if _, err := store.SignIn(context.Background(), "asha@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var transitions []Transition
	store.Subscribe(func(tr Transition) { transitions = append(transitions, tr) })

	profiles.view = completeView(id)
	if err := store.LoadProfile(context.Background()); err != nil {
		t.Fatalf("load profile: %v", err)
	}

	if store.State() != StateAuthenticatedComplete {
		t.Fatalf("expected promotion to complete, got %s", store.State())
	}
	if len(transitions) != 1 || transitions[0].Next != StateAuthenticatedComplete {
		t.Fatalf("expected one transition to complete, got %+v", transitions)
	}
}

func TestLoadProfileWithoutIdentity(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, &stubProvider{}, &stubProfiles{})

	err := store.LoadProfile(context.Background())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSignOutDestroysSessionAndNotifies(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	provider := &stubProvider{identity: &Identity{ID: id, AccessToken: "tok"}}
	store := newTestStore(t, provider, &stubProfiles{view: completeView(id)})

	if _, err := store.SignIn(context.Background(), "asha@example.com", "pw"); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	var transitions []Transition
	store.Subscribe(func(tr Transition) { transitions = append(transitions, tr) })

	if err := store.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if store.State() != StateAnonymous || store.Identity() != nil || store.Profile() != nil {
		t.Fatalf("expected fully destroyed session")
	}
	if len(transitions) != 1 || !transitions[0].Prev.IsAuthenticated() || transitions[0].Next != StateAnonymous {
		t.Fatalf("expected authenticated→anonymous transition, got %+v", transitions)
	}
	if !provider.sessionEnded {
		t.Fatalf("expected provider session ended")
	}
}

func TestSignOutWhileAnonymousDoesNotNotify(t *testing.T) {
	t.Parallel()

	store := newTestStore(t, &stubProvider{}, &stubProfiles{})

	var transitions []Transition
	store.Subscribe(func(tr Transition) { transitions = append(transitions, tr) })

	if err := store.SignOut(context.Background()); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if len(transitions) != 0 {
		t.Fatalf("expected no transitions, got %+v", transitions)
	}
}

type stubProvider struct {
	identity     *Identity
	err          error
	sessionEnded bool
}

func (s *stubProvider) CreateAccount(ctx context.Context, email, password, fullName string) (*Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.identity
	return &copied, nil
}

func (s *stubProvider) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.identity
	return &copied, nil
}

func (s *stubProvider) EndSession(ctx context.Context, accessToken string) error {
	s.sessionEnded = true
	return nil
}

type stubProfiles struct {
	view *profile.View
	err  error
}

func (s *stubProfiles) Get(ctx context.Context, identityID uuid.UUID) (*profile.View, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.view == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
	}
	copied := *s.view
	return &copied, nil
}
