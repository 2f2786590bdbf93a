package navigation

import (
	"fmt"
	"sync"

	sessionstore "github.com/kiranakart/kiranakart-backend/internal/session"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
)

const profileDetourNotice = "complete your delivery profile to continue to checkout"

// Decision is the outcome of gating a navigation intent.
type Decision struct {
	Page       enums.Page `json:"page"`
	Detour     bool       `json:"detour"`
	Notice     string     `json:"notice,omitempty"`
	ReviewCart bool       `json:"review_cart,omitempty"`
	Resumed    bool       `json:"resumed,omitempty"`
}

// SessionReader is the slice of session state the controller gates on.
type SessionReader interface {
	State() sessionstore.State
}

// Recorder hears about checkout detours; the prometheus wrapper satisfies it.
type Recorder interface {
	IncCheckoutDetour(target string)
}

// Controller gates access to pages that require identity or a complete
// profile and resumes the shopper's original goal after the detour. One
// Controller serves one browser session.
type Controller struct {
	mu           sync.Mutex
	session      SessionReader
	metrics      Recorder
	resumeTarget *enums.Page
	reviewCart   bool

	// pending decision armed when profile completion satisfies a
	// remembered checkout target
	completionResume *Decision
}

// NewController builds a navigation controller over the session store.
func NewController(session SessionReader, metrics Recorder) (*Controller, error) {
	if session == nil {
		return nil, fmt.Errorf("session reader is required")
	}
	return &Controller{session: session, metrics: metrics}, nil
}

// Navigate applies the gating policy to the requested page.
func (c *Controller) Navigate(page enums.Page) Decision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applyPolicyLocked(page)
}

// Resume is called after a successful sign-in/sign-up or profile save. If a
// remembered target exists the same gating policy is re-run against it, so
// a still-incomplete profile detours again instead of looping.
func (c *Controller) Resume() Decision {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.completionResume != nil {
		decision := *c.completionResume
		c.completionResume = nil
		return decision
	}

	if c.resumeTarget == nil {
		return Decision{Page: enums.PageHome}
	}

	target := *c.resumeTarget
	c.resumeTarget = nil

	if target == enums.PageCart {
		c.reviewCart = true
		return Decision{Page: enums.PageCart, ReviewCart: true, Resumed: true}
	}

	decision := c.applyPolicyLocked(target)
	decision.Resumed = true
	return decision
}

// ConsumeReviewFlag returns the one-shot "please review your cart" flag
// and clears it. The cart page is the only consumer.
func (c *Controller) ConsumeReviewFlag() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	set := c.reviewCart
	c.reviewCart = false
	return set
}

// ObserveSession is subscribed to the session store. Identity loss wipes
// the remembered target; profile completion with a remembered checkout
// target arms a resume at cart with the review flag.
func (c *Controller) ObserveSession(tr sessionstore.Transition) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tr.Prev.IsAuthenticated() && tr.Next == sessionstore.StateAnonymous {
		c.resumeTarget = nil
		c.reviewCart = false
		c.completionResume = nil
		return
	}

	if tr.Prev == sessionstore.StateAuthenticatedIncomplete &&
		tr.Next == sessionstore.StateAuthenticatedComplete &&
		c.resumeTarget != nil && *c.resumeTarget == enums.PageCheckout {
		c.resumeTarget = nil
		c.reviewCart = true
		c.completionResume = &Decision{Page: enums.PageCart, ReviewCart: true, Resumed: true}
	}
}

func (c *Controller) applyPolicyLocked(page enums.Page) Decision {
	state := c.session.State()

	if page == enums.PageCheckout {
		switch {
		case !state.IsAuthenticated():
			// resume at cart, not checkout, so the shopper reviews the
			// cart after login
			c.rememberLocked(enums.PageCart)
			c.recordDetour(enums.PageAuth)
			return Decision{Page: enums.PageAuth, Detour: true}
		case state == sessionstore.StateAuthenticatedIncomplete:
			c.rememberLocked(enums.PageCheckout)
			c.recordDetour(enums.PageProfile)
			return Decision{Page: enums.PageProfile, Detour: true, Notice: profileDetourNotice}
		default:
			return Decision{Page: enums.PageCheckout}
		}
	}

	if page.RequiresIdentity() {
		if !state.IsAuthenticated() {
			c.rememberLocked(page)
			return Decision{Page: enums.PageAuth, Detour: true}
		}
		return Decision{Page: page}
	}

	return Decision{Page: page}
}

func (c *Controller) rememberLocked(page enums.Page) {
	target := page
	c.resumeTarget = &target
}

func (c *Controller) recordDetour(target enums.Page) {
	if c.metrics != nil {
		c.metrics.IncCheckoutDetour(string(target))
	}
}
