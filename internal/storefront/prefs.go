package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kiranakart/kiranakart-backend/pkg/storage"
)

const maxSearchHistory = 10

// Prefs holds the per-identity durable flags that live next to the cart
// blob: the has-seen-welcome marker and the recent search terms.
type Prefs struct {
	store storage.Store
}

func newPrefs(store storage.Store) *Prefs {
	return &Prefs{store: store}
}

// HasSeenWelcome reports whether the identity has already been shown the
// first-visit welcome. An absent key means "not yet".
func (p *Prefs) HasSeenWelcome(ctx context.Context, identityID string) (bool, error) {
	_, err := p.store.Get(ctx, storage.WelcomeKey(identityID))
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading welcome flag: %w", err)
	}
	return true, nil
}

// MarkWelcomeSeen records that the identity has seen the welcome.
func (p *Prefs) MarkWelcomeSeen(ctx context.Context, identityID string) error {
	if err := p.store.Put(ctx, storage.WelcomeKey(identityID), "1"); err != nil {
		return fmt.Errorf("writing welcome flag: %w", err)
	}
	return nil
}

// SearchHistory returns the identity's recent search terms, most recent
// first. An absent key means an empty history.
func (p *Prefs) SearchHistory(ctx context.Context, identityID string) ([]string, error) {
	raw, err := p.store.Get(ctx, storage.SearchHistoryKey(identityID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading search history: %w", err)
	}

	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		// corrupt blob: start over rather than fail the page
		return nil, nil
	}
	return terms, nil
}

// RecordSearch prepends the term to the identity's history, deduplicating
// case-insensitively and keeping the newest entries.
func (p *Prefs) RecordSearch(ctx context.Context, identityID, term string) ([]string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return p.SearchHistory(ctx, identityID)
	}

	existing, err := p.SearchHistory(ctx, identityID)
	if err != nil {
		return nil, err
	}

	terms := make([]string, 0, len(existing)+1)
	terms = append(terms, term)
	for _, t := range existing {
		if strings.EqualFold(t, term) {
			continue
		}
		terms = append(terms, t)
	}
	if len(terms) > maxSearchHistory {
		terms = terms[:maxSearchHistory]
	}

	raw, err := json.Marshal(terms)
	if err != nil {
		return nil, fmt.Errorf("encoding search history: %w", err)
	}
	if err := p.store.Put(ctx, storage.SearchHistoryKey(identityID), string(raw)); err != nil {
		return nil, fmt.Errorf("writing search history: %w", err)
	}
	return terms, nil
}

// ClearSearchHistory removes the identity's recorded terms.
func (p *Prefs) ClearSearchHistory(ctx context.Context, identityID string) error {
	if err := p.store.Del(ctx, storage.SearchHistoryKey(identityID)); err != nil {
		return fmt.Errorf("clearing search history: %w", err)
	}
	return nil
}
