package cart

import (
	"context"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront-cart/internal/checkout"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
)

// Listener observes every state produced by Dispatch.
type Listener func(Snapshot)

// StoreParams wires a Store.
type StoreParams struct {
	Transport checkout.Transport
	Logger    *logger.Logger
	Metrics   *metrics.CartMetrics
	// Initial overrides the empty READY cart, mainly for tests.
	Initial *State
}

// Store owns the cart state. Every mutation goes through Dispatch, which
// serializes reducer application; listeners run outside the lock.
type Store struct {
	mu           sync.Mutex
	state        State
	itemsVersion uint64

	listenersMu sync.RWMutex
	listeners   map[int]Listener
	nextID      int

	transport checkout.Transport
	logg      *logger.Logger
	metrics   *metrics.CartMetrics
}

// NewStore builds a store with the initial cart state.
func NewStore(params StoreParams) (*Store, error) {
	if params.Transport == nil {
		return nil, fmt.Errorf("checkout transport required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	state := NewState()
	if params.Initial != nil {
		state = params.Initial.Clone()
		if state.CheckoutState == "" {
			state.CheckoutState = NewState().CheckoutState
		}
		if !state.CheckoutState.IsValid() {
			return nil, fmt.Errorf("invalid initial checkout state %q", state.CheckoutState)
		}
		for id, qty := range state.Items {
			if qty <= 0 {
				delete(state.Items, id)
			}
		}
	}
	return &Store{
		state:     state,
		listeners: map[int]Listener{},
		transport: params.Transport,
		logg:      logg,
		metrics:   params.Metrics,
	}, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Dispatch applies action and returns the resulting snapshot. A nil action
// is ignored.
func (s *Store) Dispatch(action Action) Snapshot {
	if action == nil {
		return s.Snapshot()
	}
	snap, _ := s.dispatch(action, nil)
	return snap
}

func (s *Store) AddToCart(productID string) Snapshot {
	return s.Dispatch(AddToCart{ProductID: productID})
}

func (s *Store) RemoveFromCart(productID string) Snapshot {
	return s.Dispatch(RemoveFromCart{ProductID: productID})
}

func (s *Store) UpdateQuantity(productID string, quantity int) Snapshot {
	return s.Dispatch(UpdateQuantity{ProductID: productID, Quantity: quantity})
}

// Subscribe registers fn for every future state. The returned func removes it.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

// dispatch runs guard and the reducer under the state lock. A guard error
// leaves the state untouched and skips listeners.
func (s *Store) dispatch(action Action, guard func(State) error) (Snapshot, error) {
	s.mu.Lock()
	if guard != nil {
		if err := guard(s.state); err != nil {
			snap := s.snapshotLocked()
			s.mu.Unlock()
			return snap, err
		}
	}
	next, changed := reduce(s.state, action)
	s.state = next
	if changed {
		s.itemsVersion++
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.IncAction(action.Type())
	ctx := s.logg.WithFields(context.Background(), map[string]any{
		"action":         action.Type(),
		"checkout_state": snap.CheckoutState.String(),
		"lines":          len(snap.Items),
	})
	s.logg.Debug(ctx, "cart.dispatch")

	s.notify(snap)
	return snap, nil
}

func (s *Store) notify(snap Snapshot) {
	s.listenersMu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(Snapshot{State: snap.Clone(), ItemsVersion: snap.ItemsVersion})
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{State: s.state.Clone(), ItemsVersion: s.itemsVersion}
}
