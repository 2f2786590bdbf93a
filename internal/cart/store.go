package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sessionstore "github.com/kiranakart/kiranakart-backend/internal/session"
	"github.com/kiranakart/kiranakart-backend/pkg/enums"
	pkgerrors "github.com/kiranakart/kiranakart-backend/pkg/errors"
	"github.com/kiranakart/kiranakart-backend/pkg/storage"
)

// Product carries the catalog fields a cart line snapshots on add.
type Product struct {
	ProductID uuid.UUID         `json:"product_id"`
	ShopID    uuid.UUID         `json:"shop_id"`
	Name      string            `json:"name"`
	Unit      enums.ProductUnit `json:"unit"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	ImageRef  string            `json:"image_ref"`
}

// Line is one cart entry. Quantity is always >= 1; a decrement to zero
// removes the line instead.
type Line struct {
	ProductID uuid.UUID         `json:"product_id"`
	ShopID    uuid.UUID         `json:"shop_id"`
	Name      string            `json:"name"`
	Unit      enums.ProductUnit `json:"unit"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	ImageRef  string            `json:"image_ref"`
}

// SwitchPrompt is returned when an add targets a different shop than the
// current cart. Nothing mutates until the prompt is confirmed.
type SwitchPrompt struct {
	Token         string    `json:"token"`
	CurrentShopID uuid.UUID `json:"current_shop_id"`
	NewShopID     uuid.UUID `json:"new_shop_id"`
	ProductName   string    `json:"product_name"`
}

type pendingSwitch struct {
	token   string
	product Product
}

type persistedCart struct {
	ShopID *uuid.UUID `json:"shop_id,omitempty"`
	Items  []Line     `json:"items"`
}

// ClearReason labels why a cart was emptied.
type ClearReason string

const (
	ClearReasonUser        ClearReason = "user"
	ClearReasonCheckout    ClearReason = "checkout"
	ClearReasonSessionLoss ClearReason = "session_loss"
	ClearReasonShopSwitch  ClearReason = "shop_switch"
)

// Recorder hears about cart clears; the prometheus wrapper satisfies it.
type Recorder interface {
	IncCartClear(reason string)
	IncShopSwitchPrompt()
}

// Store enforces the single-shop invariant and the quantity rules, writes
// every mutation through to durable storage, and reacts to session loss.
// One Store serves one browser session.
type Store struct {
	mu      sync.Mutex
	items   []Line
	shopID  *uuid.UUID
	pending *pendingSwitch
	notice  string

	// first-observation latch for the session watcher; tracked separately
	// from the previous identity on record.
	resolvedOnce bool

	blob    storage.Store
	metrics Recorder
}

// NewStore builds a cart store, rehydrating from the persisted blob when
// one exists. A missing blob means a fresh empty cart; a corrupt blob is
// discarded rather than surfaced.
func NewStore(ctx context.Context, blob storage.Store, metrics Recorder) (*Store, error) {
	if blob == nil {
		return nil, fmt.Errorf("durable storage is required")
	}

	s := &Store{blob: blob, metrics: metrics}

	raw, err := blob.Get(ctx, storage.CartKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("rehydrate cart: %w", err)
	}

	var saved persistedCart
	if err := json.Unmarshal([]byte(raw), &saved); err == nil {
		s.items = saved.Items
		s.shopID = saved.ShopID
	}
	return s, nil
}

// AddItem upserts the product into the cart. When the cart already holds
// lines from a different shop, nothing mutates: the returned prompt must be
// confirmed or cancelled first.
func (s *Store) AddItem(ctx context.Context, p Product) (*SwitchPrompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.shopID != nil && *s.shopID != p.ShopID {
		token := uuid.NewString()
		s.pending = &pendingSwitch{token: token, product: p}
		s.metricsPrompt()
		return &SwitchPrompt{
			Token:         token,
			CurrentShopID: *s.shopID,
			NewShopID:     p.ShopID,
			ProductName:   p.Name,
		}, nil
	}

	s.upsertLocked(p)
	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return nil, nil
}

// ConfirmSwitch discards the current cart and starts a new one for the
// pending product's shop. The token must match the outstanding prompt.
func (s *Store) ConfirmSwitch(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.token != token {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no matching shop switch pending")
	}

	product := s.pending.product
	s.pending = nil
	s.items = nil
	s.shopID = nil
	s.upsertLocked(product)
	if s.metrics != nil {
		s.metrics.IncCartClear(string(ClearReasonShopSwitch))
	}
	return s.persistLocked(ctx)
}

// CancelSwitch declines the pending shop switch, leaving the cart unchanged.
func (s *Store) CancelSwitch(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.pending.token != token {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "no matching shop switch pending")
	}
	s.pending = nil
	return nil
}

// RemoveItem deletes the line if present; absent lines are a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeLocked(productID) {
		return nil
	}
	return s.persistLocked(ctx)
}

// SetQuantity sets the line quantity; zero or below removes the line.
func (s *Store) SetQuantity(ctx context.Context, productID uuid.UUID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		if !s.removeLocked(productID) {
			return nil
		}
		return s.persistLocked(ctx)
	}

	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items[i].Quantity = qty
			return s.persistLocked(ctx)
		}
	}
	return nil
}

// Clear empties the cart on explicit user action or successful checkout.
func (s *Store) Clear(ctx context.Context, reason ClearReason) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(ctx, reason)
}

// TotalItems sums line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.items {
		total += line.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity across lines.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, line := range s.items {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Snapshot returns a copy of the lines and the current shop id.
func (s *Store) Snapshot() ([]Line, *uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Line, len(s.items))
	copy(items, s.items)
	if s.shopID == nil {
		return items, nil
	}
	id := *s.shopID
	return items, &id
}

// ConsumeNotice returns the one-time user-facing notice and clears it.
func (s *Store) ConsumeNotice() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	notice := s.notice
	s.notice = ""
	return notice
}

// ObserveSession is subscribed to the session store. A transition from an
// authenticated state to anonymous while the cart is non-empty clears the
// cart, wipes the persisted blob, and records a one-time notice. The very
// first observation after startup is skipped so an unresolved initial
// session state cannot misfire the reaction.
func (s *Store) ObserveSession(tr sessionstore.Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.resolvedOnce {
		s.resolvedOnce = true
		return
	}

	if !tr.Prev.IsAuthenticated() || tr.Next != sessionstore.StateAnonymous {
		return
	}
	if len(s.items) == 0 {
		return
	}

	// storage errors here degrade silently; the in-memory clear still holds
	_ = s.clearLocked(context.Background(), ClearReasonSessionLoss)
	s.notice = "cart cleared because you signed out"
}

func (s *Store) upsertLocked(p Product) {
	for i := range s.items {
		if s.items[i].ProductID == p.ProductID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, Line{
		ProductID: p.ProductID,
		ShopID:    p.ShopID,
		Name:      p.Name,
		Unit:      p.Unit,
		UnitPrice: p.UnitPrice,
		Quantity:  1,
		ImageRef:  p.ImageRef,
	})
	if s.shopID == nil {
		id := p.ShopID
		s.shopID = &id
	}
}

func (s *Store) removeLocked(productID uuid.UUID) bool {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			if len(s.items) == 0 {
				s.shopID = nil
			}
			return true
		}
	}
	return false
}

func (s *Store) clearLocked(ctx context.Context, reason ClearReason) error {
	s.items = nil
	s.shopID = nil
	s.pending = nil
	if s.metrics != nil {
		s.metrics.IncCartClear(string(reason))
	}
	if err := s.blob.Del(ctx, storage.CartKey); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "wipe cart blob")
	}
	return nil
}

func (s *Store) persistLocked(ctx context.Context) error {
	payload, err := json.Marshal(persistedCart{ShopID: s.shopID, Items: s.items})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize cart")
	}
	if err := s.blob.Put(ctx, storage.CartKey, string(payload)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart")
	}
	return nil
}

func (s *Store) metricsPrompt() {
	if s.metrics != nil {
		s.metrics.IncShopSwitchPrompt()
	}
}
