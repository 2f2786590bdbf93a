package location

import (
	"context"
	"errors"
	"testing"

	"github.com/kiranakart/kiranakart-backend/pkg/enums"
)

var testAllowList = []string{"Ramagiri", "Kalyandurg", "Anantapur"}

type stubResolver struct {
	label string
	err   error
	calls int
}

func (s *stubResolver) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.label, nil
}

func chainOf(resolvers ...*stubResolver) []NamedResolver {
	chain := make([]NamedResolver, 0, len(resolvers))
	for i, r := range resolvers {
		chain = append(chain, NamedResolver{Name: string(rune('a' + i)), Resolver: r})
	}
	return chain
}

func TestResolveFixUsesFirstUsableLabel(t *testing.T) {
	t.Parallel()

	first := &stubResolver{label: "Anantapur"}
	second := &stubResolver{label: "should not be called"}
	gate, err := NewGate(testAllowList, chainOf(first, second), nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	view := gate.ResolveFix(context.Background(), 14.68, 77.60)
	if view.Label != "Anantapur" || !view.ServiceAvailable {
		t.Fatalf("expected available Anantapur, got %+v", view)
	}
	if second.calls != 0 {
		t.Fatalf("second resolver must not run after a usable label")
	}
}

func TestResolveFixFallsThroughFailures(t *testing.T) {
	t.Parallel()

	first := &stubResolver{err: errors.New("provider down")}
	second := &stubResolver{label: "   "}
	third := &stubResolver{label: "Kalyandurg"}
	gate, err := NewGate(testAllowList, chainOf(first, second, third), nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	view := gate.ResolveFix(context.Background(), 14.54, 77.10)
	if view.Label != "Kalyandurg" || view.Availability != enums.AvailabilityAvailable {
		t.Fatalf("expected fall-through to third resolver, got %+v", view)
	}
}

func TestResolveFixExhaustedChainIsUnresolved(t *testing.T) {
	t.Parallel()

	gate, err := NewGate(testAllowList, chainOf(&stubResolver{err: errors.New("down")}), nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	view := gate.ResolveFix(context.Background(), 0, 0)
	if view.Label != LabelUnresolved {
		t.Fatalf("expected unresolved, got %+v", view)
	}
	if view.Availability != enums.AvailabilityPermissionNeeded || view.ServiceAvailable {
		t.Fatalf("unresolved must need permission, not out-of-area: %+v", view)
	}
}

func TestAvailabilityMatchesBidirectionalSubstring(t *testing.T) {
	t.Parallel()

	gate, err := NewGate(testAllowList, nil, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	cases := []struct {
		label string
		want  enums.Availability
	}{
		{"Ramagiri", enums.AvailabilityAvailable},
		{"RAMAGIRI", enums.AvailabilityAvailable},
		{"Ramagiri Town", enums.AvailabilityAvailable},     // allow-listed name inside label
		{"Anantap", enums.AvailabilityAvailable},           // label inside allow-listed name
		{"Kalyandurg, Andhra", enums.AvailabilityAvailable},
		{"Mumbai", enums.AvailabilityOutOfArea},
		{"Hyderabad", enums.AvailabilityOutOfArea},
	}
	for _, tc := range cases {
		gate.label = tc.label
		if got := gate.State().Availability; got != tc.want {
			t.Errorf("label %q: expected %s, got %s", tc.label, tc.want, got)
		}
	}
}

func TestSentinelsRouteToPermissionNeeded(t *testing.T) {
	t.Parallel()

	gate, err := NewGate(testAllowList, nil, nil)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}

	if view := gate.MarkDenied(); view.Availability != enums.AvailabilityPermissionNeeded {
		t.Fatalf("denied must need permission, got %+v", view)
	}
	if view := gate.MarkUnavailable(); view.Availability != enums.AvailabilityPermissionNeeded {
		t.Fatalf("unavailable must need permission, got %+v", view)
	}
	if view := gate.State(); view.ServiceAvailable {
		t.Fatalf("sentinel must not be serviceable: %+v", view)
	}
}

func TestNewGateRequiresAllowList(t *testing.T) {
	t.Parallel()

	if _, err := NewGate(nil, nil, nil); err == nil {
		t.Fatalf("expected error for empty allow-list")
	}
	if _, err := NewGate([]string{"  ", ""}, nil, nil); err == nil {
		t.Fatalf("expected error for blank allow-list entries")
	}
}
