package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/roach88/menucart/internal/pricing"
	"github.com/roach88/menucart/internal/session"
)

// StorageKey is the session key holding the JSON array of line items.
const StorageKey = "cart_items"

// Listener observes every applied action and the state it produced.
type Listener func(State, Action)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

type subscription struct {
	id int
	fn Listener
}

// Store is the cart state container.
//
// Actions are applied strictly in call order. After each action the item
// list is written to the session storage; write failures are logged and the
// in-memory state stands. Listeners run after the internal lock is released,
// in subscription order.
//
// Thread-safety: Store is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	state     State
	storage   session.Storage
	logger    zerolog.Logger
	listeners []subscription
	nextID    int
}

// NewStore creates a store seeded from storage. Missing, unreadable or
// malformed data yields an empty cart.
func NewStore(ctx context.Context, storage session.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Items = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []LineItem {
	if s.storage == nil {
		return nil
	}

	data, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("key", StorageKey).Msg("cart: failed to read persisted cart, starting empty")
		return nil
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn().Err(err).Str("key", StorageKey).Msg("cart: persisted cart is malformed, starting empty")
		return nil
	}

	clean, dropped := sanitize(items)
	if dropped > 0 {
		s.logger.Warn().Int("dropped", dropped).Msg("cart: repaired persisted cart")
	}
	return clean
}

func (s *Store) persist(ctx context.Context, items []LineItem) {
	if s.storage == nil {
		return
	}
	if items == nil {
		items = []LineItem{}
	}

	data, err := json.Marshal(storable(items))
	if err != nil {
		s.logger.Error().Err(err).Msg("cart: failed to encode cart")
		return
	}
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		s.logger.Error().Err(err).Str("key", StorageKey).Msg("cart: failed to persist cart")
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn for every future action and returns a function that
// removes it. Calling the returned function more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies a, persists the items, notifies listeners and returns the
// resulting state.
func (s *Store) Dispatch(ctx context.Context, a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	s.persist(ctx, s.state.Items)
	snapshot := s.state.Clone()
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.logger.Debug().
		Str("action", a.Kind()).
		Int("lines", len(snapshot.Items)).
		Msg("cart: action applied")

	for _, sub := range listeners {
		sub.fn(snapshot.Clone(), a)
	}
	return snapshot
}

// AddOrMergeItem adds item or merges its quantity into the line with the same
// SKU, and opens the drawer.
func (s *Store) AddOrMergeItem(ctx context.Context, item LineItem) State {
	return s.Dispatch(ctx, AddOrMergeItem{Item: item})
}

// RemoveItem removes the line with sku if present.
func (s *Store) RemoveItem(ctx context.Context, sku string) State {
	return s.Dispatch(ctx, RemoveItem{SKU: sku})
}

// SetQuantity sets the quantity of the line with sku. qty <= 0 removes it.
func (s *Store) SetQuantity(ctx context.Context, sku string, qty int) State {
	return s.Dispatch(ctx, SetQuantity{SKU: sku, Quantity: qty})
}

// Clear removes every line.
func (s *Store) Clear(ctx context.Context) State {
	return s.Dispatch(ctx, Clear{})
}

// SetDrawerVisible shows or hides the cart drawer.
func (s *Store) SetDrawerVisible(ctx context.Context, visible bool) State {
	return s.Dispatch(ctx, SetDrawerVisible{Visible: visible})
}

// MarkOrderPlaced records a placed order (clearing the cart) or resets the
// flag.
func (s *Store) MarkOrderPlaced(ctx context.Context, placed bool) State {
	return s.Dispatch(ctx, MarkOrderPlaced{Placed: placed})
}

// storable copies items with every price made JSON-encodable, so one
// malformed catalog price cannot stop the whole cart from being saved.
func storable(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, it := range items {
		it = it.Clone()
		it.BasePrice = pricing.Storable(it.BasePrice)
		for _, g := range it.Selections {
			for j := range g.Options {
				g.Options[j].PriceDelta = pricing.Storable(g.Options[j].PriceDelta)
			}
		}
		out[i] = it
	}
	return out
}
