package storefront

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lmorales-dev/vestra-backend/internal/cart"
)

type cartGateway interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input cart.AddItemInput) (*cart.CartDTO, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cart.CartDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.CartDTO, error)
}

// CartStore is a session-scoped cart mirror. It holds the last server copy,
// serializes mutations behind a busy flag, and applies removals
// optimistically with a snapshot rollback when the server disagrees.
type CartStore struct {
	mu      sync.Mutex
	userID  uuid.UUID
	gateway cartGateway

	state LoadState
	busy  bool
	items []cart.CartItemDTO
}

// NewCartStore builds an empty store for the user.
func NewCartStore(userID uuid.UUID, gateway cartGateway) *CartStore {
	return &CartStore{userID: userID, gateway: gateway}
}

// Load fetches the server cart. Calling Load while another Load runs reports
// failure instead of double-fetching; a Ready store can Load again to refresh.
// Without a signed-in user the cart is simply empty.
func (s *CartStore) Load(ctx context.Context) Result {
	s.mu.Lock()
	if s.state == LoadStateLoading {
		s.mu.Unlock()
		return fail("cart is already loading")
	}
	if s.userID == uuid.Nil {
		s.items = nil
		s.state = LoadStateReady
		s.mu.Unlock()
		return ok()
	}
	s.state = LoadStateLoading
	s.mu.Unlock()

	dto, err := s.gateway.GetCart(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.items = nil
		s.state = LoadStateUninitialized
		return fail("could not load cart")
	}
	s.items = dto.Items
	s.state = LoadStateReady
	return ok()
}

// Add folds a new line into the cart through the server. Requires a
// signed-in user; nothing is sent otherwise.
func (s *CartStore) Add(ctx context.Context, input cart.AddItemInput) Result {
	if s.userID == uuid.Nil {
		return fail("login required")
	}
	release, result := s.acquire()
	if !result.Success {
		return result
	}
	defer release()

	dto, err := s.gateway.AddItem(ctx, s.userID, input)
	return s.applyServerCopy(dto, err, "could not add to cart")
}

// UpdateQuantity overwrites one line's quantity through the server.
func (s *CartStore) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) Result {
	if s.userID == uuid.Nil {
		return fail("login required")
	}
	release, result := s.acquire()
	if !result.Success {
		return result
	}
	defer release()

	dto, err := s.gateway.UpdateQuantity(ctx, s.userID, itemID, quantity)
	return s.applyServerCopy(dto, err, "could not update cart")
}

// Remove drops the line locally first so the UI reacts immediately, then
// confirms with the server. On failure the snapshot comes back. Removing an
// id that is not in the store leaves the local list alone but still issues
// the idempotent server delete.
func (s *CartStore) Remove(ctx context.Context, itemID uuid.UUID) Result {
	if s.userID == uuid.Nil {
		return fail("login required")
	}
	release, result := s.acquire()
	if !result.Success {
		return result
	}
	defer release()

	s.mu.Lock()
	index := -1
	for i := range s.items {
		if s.items[i].ID == itemID {
			index = i
			break
		}
	}
	var snapshot []cart.CartItemDTO
	if index >= 0 {
		snapshot = make([]cart.CartItemDTO, len(s.items))
		copy(snapshot, s.items)
		s.items = append(s.items[:index], s.items[index+1:]...)
	}
	s.mu.Unlock()

	dto, err := s.gateway.RemoveItem(ctx, s.userID, itemID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if index >= 0 {
			s.items = snapshot
		}
		return fail("could not remove from cart")
	}
	s.items = dto.Items
	return ok()
}

// Items returns a copy of the current lines.
func (s *CartStore) Items() []cart.CartItemDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]cart.CartItemDTO, len(s.items))
	copy(items, s.items)
	return items
}

// TotalCents sums the line totals of the local copy.
func (s *CartStore) TotalCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for i := range s.items {
		total += s.items[i].LineTotalCents
	}
	return total
}

// ItemCount sums the quantities of the local copy.
func (s *CartStore) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for i := range s.items {
		count += s.items[i].Quantity
	}
	return count
}

// State reports the load-state machine position.
func (s *CartStore) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a mutation is in flight.
func (s *CartStore) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// acquire claims the busy flag. One mutation at a time keeps optimistic
// snapshots coherent.
func (s *CartStore) acquire() (func(), Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, fail("another cart update is in progress")
	}
	s.busy = true
	return func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}, ok()
}

func (s *CartStore) applyServerCopy(dto *cart.CartDTO, err error, message string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return fail(message)
	}
	s.items = dto.Items
	s.state = LoadStateReady
	return ok()
}
