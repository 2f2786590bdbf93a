package location

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kiranakart/kiranakart-backend/pkg/enums"
)

// Sentinel labels. They route to the permission-needed UI, never to the
// out-of-area one.
const (
	LabelUnresolved  = "unresolved"
	LabelDenied      = "denied"
	LabelUnavailable = "unavailable"
)

// Resolver maps a browser fix to a place label. Both geocoding providers
// and the centroid table satisfy it.
type Resolver interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// NamedResolver pairs a resolver with the source label used in metrics.
type NamedResolver struct {
	Name     string
	Resolver Resolver
}

// Recorder hears about resolution outcomes; the prometheus wrapper
// satisfies it.
type Recorder interface {
	IncLocationResolution(source, availability string)
}

// View is the externally visible location state.
type View struct {
	Label            string             `json:"label"`
	Resolving        bool               `json:"resolving"`
	ServiceAvailable bool               `json:"service_available"`
	Availability     enums.Availability `json:"availability"`
}

// Gate resolves a place label for the browser session and decides whether
// the ordering experience is shown at all. One Gate serves one browser
// session.
type Gate struct {
	mu        sync.Mutex
	label     string
	resolving bool
	allowList []string
	chain     []NamedResolver
	metrics   Recorder
}

// NewGate builds a gate over the allow-list and the ordered resolver
// chain. Resolvers are tried in sequence; each is attempted only when the
// previous produced no usable label.
func NewGate(allowList []string, chain []NamedResolver, metrics Recorder) (*Gate, error) {
	if len(allowList) == 0 {
		return nil, fmt.Errorf("service area allow-list is required")
	}
	cleaned := make([]string, 0, len(allowList))
	for _, area := range allowList {
		if trimmed := strings.TrimSpace(area); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("service area allow-list is required")
	}
	return &Gate{
		label:     LabelUnresolved,
		allowList: cleaned,
		chain:     chain,
		metrics:   metrics,
	}, nil
}

// ResolveFix walks the resolver chain with the browser-provided fix. Every
// failure falls through; the chain terminates in the unresolved label
// rather than an error.
func (g *Gate) ResolveFix(ctx context.Context, lat, lng float64) View {
	g.mu.Lock()
	g.resolving = true
	chain := g.chain
	g.mu.Unlock()

	label := LabelUnresolved
	source := "none"
	for _, resolver := range chain {
		resolved, err := resolver.Resolver.ReverseGeocode(ctx, lat, lng)
		if err != nil || strings.TrimSpace(resolved) == "" {
			continue
		}
		label = strings.TrimSpace(resolved)
		source = resolver.Name
		break
	}

	g.mu.Lock()
	g.label = label
	g.resolving = false
	view := g.viewLocked()
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.IncLocationResolution(source, string(view.Availability))
	}
	return view
}

// MarkDenied records that the browser reported a permission denial.
func (g *Gate) MarkDenied() View {
	return g.markSentinel(LabelDenied, "browser_denied")
}

// MarkUnavailable records that geolocation is unsupported or failed before
// producing a fix.
func (g *Gate) MarkUnavailable() View {
	return g.markSentinel(LabelUnavailable, "browser_unavailable")
}

// State returns the current location view.
func (g *Gate) State() View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.viewLocked()
}

func (g *Gate) markSentinel(label, source string) View {
	g.mu.Lock()
	g.label = label
	g.resolving = false
	view := g.viewLocked()
	g.mu.Unlock()

	if g.metrics != nil {
		g.metrics.IncLocationResolution(source, string(view.Availability))
	}
	return view
}

func (g *Gate) viewLocked() View {
	availability := g.availabilityLocked()
	return View{
		Label:            g.label,
		Resolving:        g.resolving,
		ServiceAvailable: availability == enums.AvailabilityAvailable,
		Availability:     availability,
	}
}

// availabilityLocked implements the tri-state decision: sentinels need a
// permission prompt, resolved labels are matched against the allow-list.
func (g *Gate) availabilityLocked() enums.Availability {
	switch g.label {
	case "", LabelUnresolved, LabelDenied, LabelUnavailable:
		return enums.AvailabilityPermissionNeeded
	}
	if matchesAllowList(g.label, g.allowList) {
		return enums.AvailabilityAvailable
	}
	return enums.AvailabilityOutOfArea
}

// matchesAllowList tests the label case-insensitively as a substring of
// each allow-listed name and vice versa, so partial or alternate
// renderings of a serviceable place still pass.
func matchesAllowList(label string, allowList []string) bool {
	lowered := strings.ToLower(label)
	for _, area := range allowList {
		areaLower := strings.ToLower(area)
		if strings.Contains(lowered, areaLower) || strings.Contains(areaLower, lowered) {
			return true
		}
	}
	return false
}
