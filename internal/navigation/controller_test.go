package navigation

import (
	"testing"

	sessionstore "github.com/kiranakart/kiranakart-backend/internal/session"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
)

type stubSession struct {
	state sessionstore.State
}

func (s *stubSession) State() sessionstore.State { return s.state }

func newTestController(t *testing.T, state sessionstore.State) (*Controller, *stubSession) {
	t.Helper()
	sess := &stubSession{state: state}
	ctrl, err := NewController(sess, nil)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl, sess
}

func TestAnonymousCheckoutDetoursToAuthThenResumesAtCart(t *testing.T) {
	t.Parallel()

	ctrl, sess := newTestController(t, sessionstore.StateAnonymous)

	decision := ctrl.Navigate(enums.PageCheckout)
	if decision.Page != enums.PageAuth || !decision.Detour {
		t.Fatalf("expected auth detour, got %+v", decision)
	}

	// successful sign-in
	sess.state = sessionstore.StateAuthenticatedComplete
	resumed := ctrl.Resume()
	if resumed.Page != enums.PageCart || !resumed.ReviewCart || !resumed.Resumed {
		t.Fatalf("expected resume at cart with review flag, got %+v", resumed)
	}

	if !ctrl.ConsumeReviewFlag() {
		t.Fatalf("expected review flag set")
	}
	if ctrl.ConsumeReviewFlag() {
		t.Fatalf("review flag must be one-shot")
	}
}

func TestIncompleteProfileCheckoutDetoursToProfile(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t, sessionstore.StateAuthenticatedIncomplete)

	decision := ctrl.Navigate(enums.PageCheckout)
	if decision.Page != enums.PageProfile || !decision.Detour || decision.Notice == "" {
		t.Fatalf("expected profile detour with notice, got %+v", decision)
	}
}

func TestCompleteProfileReachesCheckoutDirectly(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t, sessionstore.StateAuthenticatedComplete)

	decision := ctrl.Navigate(enums.PageCheckout)
	if decision.Page != enums.PageCheckout || decision.Detour {
		t.Fatalf("expected direct checkout, got %+v", decision)
	}
}

func TestProfileCompletionResumesAtCartWithReviewFlag(t *testing.T) {
	t.Parallel()

	ctrl, sess := newTestController(t, sessionstore.StateAuthenticatedIncomplete)

	if decision := ctrl.Navigate(enums.PageCheckout); decision.Page != enums.PageProfile {
		t.Fatalf("expected profile detour, got %+v", decision)
	}

	// the profile save completes the profile
	sess.state = sessionstore.StateAuthenticatedComplete
	ctrl.ObserveSession(sessionstore.Transition{
		Prev: sessionstore.StateAuthenticatedIncomplete,
		Next: sessionstore.StateAuthenticatedComplete,
	})

	resumed := ctrl.Resume()
	if resumed.Page != enums.PageCart || !resumed.ReviewCart {
		t.Fatalf("expected resume at cart with review flag, got %+v", resumed)
	}
}

func TestResumeReRunsPolicyWhenProfileStillIncomplete(t *testing.T) {
	t.Parallel()

	ctrl, sess := newTestController(t, sessionstore.StateAnonymous)

	ctrl.Navigate(enums.PageOrders)

	// signed in but profile still incomplete; orders only needs identity
	sess.state = sessionstore.StateAuthenticatedIncomplete
	resumed := ctrl.Resume()
	if resumed.Page != enums.PageOrders || !resumed.Resumed {
		t.Fatalf("expected resume at orders, got %+v", resumed)
	}

	// a remembered checkout with an incomplete profile detours again
	// rather than looping
	ctrl2, sess2 := newTestController(t, sessionstore.StateAuthenticatedIncomplete)
	ctrl2.Navigate(enums.PageCheckout)
	sess2.state = sessionstore.StateAuthenticatedIncomplete
	resumed2 := ctrl2.Resume()
	if resumed2.Page != enums.PageProfile || !resumed2.Detour {
		t.Fatalf("expected renewed profile detour, got %+v", resumed2)
	}
}

func TestProfileAndOrdersRequireIdentityOnly(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t, sessionstore.StateAnonymous)
	if decision := ctrl.Navigate(enums.PageProfile); decision.Page != enums.PageAuth {
		t.Fatalf("expected auth detour for anonymous profile, got %+v", decision)
	}

	ctrl2, _ := newTestController(t, sessionstore.StateAuthenticatedIncomplete)
	if decision := ctrl2.Navigate(enums.PageOrders); decision.Page != enums.PageOrders {
		t.Fatalf("expected direct orders access with identity, got %+v", decision)
	}
}

func TestUnprotectedPagesPassThrough(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t, sessionstore.StateAnonymous)
	for _, page := range []enums.Page{enums.PageHome, enums.PageShops, enums.PageSearch, enums.PageCart} {
		if decision := ctrl.Navigate(page); decision.Page != page || decision.Detour {
			t.Fatalf("expected pass-through for %s, got %+v", page, decision)
		}
	}
}

func TestSignOutClearsRememberedTarget(t *testing.T) {
	t.Parallel()

	ctrl, sess := newTestController(t, sessionstore.StateAnonymous)
	ctrl.Navigate(enums.PageCheckout)

	// sign in, then out again without resuming
	sess.state = sessionstore.StateAuthenticatedComplete
	ctrl.ObserveSession(sessionstore.Transition{
		Prev: sessionstore.StateAuthenticatedComplete,
		Next: sessionstore.StateAnonymous,
	})
	sess.state = sessionstore.StateAnonymous

	if resumed := ctrl.Resume(); resumed.Page != enums.PageHome || resumed.Resumed {
		t.Fatalf("expected stale target cleared, got %+v", resumed)
	}
}

func TestResumeWithoutTargetGoesHome(t *testing.T) {
	t.Parallel()

	ctrl, _ := newTestController(t, sessionstore.StateAuthenticatedComplete)
	if decision := ctrl.Resume(); decision.Page != enums.PageHome || decision.Resumed {
		t.Fatalf("expected home with no resume, got %+v", decision)
	}
}
