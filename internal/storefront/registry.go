package storefront

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kiranakart/kiranakart-backend/internal/identity"
	"github.com/kiranakart/kiranakart-backend/internal/location"
	"github.com/kiranakart/kiranakart-backend/internal/profile"
	sessionstore "github.com/kiranakart/kiranakart-backend/internal/session"
	"github.com/kiranakart/kiranakart-backend/pkg/config"
	"github.com/kiranakart/kiranakart-backend/pkg/logger"
	"github.com/kiranakart/kiranakart-backend/pkg/metrics"
	redisclient "github.com/kiranakart/kiranakart-backend/pkg/redis"
	"github.com/kiranakart/kiranakart-backend/pkg/storage"
)

// BlobFactory builds the durable storage handle for one client session.
type BlobFactory func(clientSessionID string) (storage.Store, error)

// RedisBlobFactory scopes storefront blobs to redis keys per client
// session. The blob outlives the in-memory aggregate: the aggregate is
// evicted after its idle TTL, but the persisted cart must still be there
// when the shopper comes back days later.
func RedisBlobFactory(client *redisclient.Client, ttl time.Duration) BlobFactory {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return func(clientSessionID string) (storage.Store, error) {
		return storage.NewRedisStore(client, clientSessionID, ttl)
	}
}

// RegistryParams bundles the process-wide dependencies shared by every
// browser session aggregate.
type RegistryParams struct {
	Identity   identity.Service
	Profiles   profile.Service
	Blobs      BlobFactory
	JWTConfig  config.JWTConfig
	Location   config.LocationConfig
	Storefront config.StorefrontConfig
	Resolvers  []location.NamedResolver
	Metrics    *metrics.StorefrontMetrics
	Logger     *logger.Logger
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

// Registry holds one Session aggregate per client session id and evicts
// aggregates idle past the configured TTL. Durable cart state lives in
// redis, so an evicted aggregate rehydrates on the next request.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry

	provider  sessionstore.IdentityProvider
	profiles  profile.Service
	blobs     BlobFactory
	allowList []string
	chain     []location.NamedResolver
	metrics   *metrics.StorefrontMetrics
	logg      *logger.Logger

	idleTTL       time.Duration
	sweepInterval time.Duration
	now           func() time.Time
}

// NewRegistry builds the registry. The identity adapter is constructed
// here so callers only hand over services.
func NewRegistry(params RegistryParams) (*Registry, error) {
	if params.Profiles == nil {
		return nil, fmt.Errorf("profile service is required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob factory is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	adapter, err := newIdentityAdapter(params.Identity, params.JWTConfig)
	if err != nil {
		return nil, err
	}

	idleTTL := params.Storefront.SessionIdleTTL
	if idleTTL <= 0 {
		idleTTL = 2 * time.Hour
	}
	sweepInterval := params.Storefront.SweepInterval
	if sweepInterval <= 0 {
		sweepInterval = 10 * time.Minute
	}

	return &Registry{
		entries:       map[string]*entry{},
		provider:      adapter,
		profiles:      params.Profiles,
		blobs:         params.Blobs,
		allowList:     params.Location.ServiceAreas,
		chain:         params.Resolvers,
		metrics:       params.Metrics,
		logg:          params.Logger,
		idleTTL:       idleTTL,
		sweepInterval: sweepInterval,
		now:           time.Now,
	}, nil
}

// Get returns the aggregate for the client session id, building and
// rehydrating it on first sight, and refreshes its idle clock.
func (r *Registry) Get(ctx context.Context, clientSessionID string) (*Session, error) {
	if clientSessionID == "" {
		return nil, fmt.Errorf("client session id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[clientSessionID]; ok {
		e.lastSeen = r.now()
		return e.session, nil
	}

	blob, err := r.blobs(clientSessionID)
	if err != nil {
		return nil, err
	}

	session, err := newSession(ctx, clientSessionID, r.provider, r.profiles, blob, r.allowList, r.chain, r.metrics)
	if err != nil {
		return nil, err
	}

	r.entries[clientSessionID] = &entry{session: session, lastSeen: r.now()}
	return session, nil
}

// Len reports how many aggregates are resident.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// StartSweeper evicts idle aggregates until the context is cancelled.
func (r *Registry) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				evicted := r.sweep()
				if evicted > 0 {
					r.logg.Info(ctx, fmt.Sprintf("evicted %d idle storefront sessions", evicted))
				}
			}
		}
	}()
}

func (r *Registry) sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}
