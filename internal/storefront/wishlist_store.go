package storefront

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lmorales-dev/vestra-backend/internal/wishlist"
)

type wishlistGateway interface {
	GetWishlist(ctx context.Context, userID uuid.UUID) (*wishlist.WishlistDTO, error)
	AddItem(ctx context.Context, userID, variantID uuid.UUID) (*wishlist.WishlistDTO, error)
	RemoveItem(ctx context.Context, userID, entryID uuid.UUID) (*wishlist.WishlistDTO, error)
}

// WishlistStore mirrors the user's wishlist with the same load-state and
// busy-flag discipline as the cart store. Removals apply optimistically and
// roll back from a snapshot on server failure.
type WishlistStore struct {
	mu      sync.Mutex
	userID  uuid.UUID
	gateway wishlistGateway

	state LoadState
	busy  bool
	items []wishlist.WishlistItemDTO
}

// NewWishlistStore builds an empty store for the user.
func NewWishlistStore(userID uuid.UUID, gateway wishlistGateway) *WishlistStore {
	return &WishlistStore{userID: userID, gateway: gateway}
}

// Load fetches the server wishlist. Without a signed-in user the list is
// simply empty.
func (s *WishlistStore) Load(ctx context.Context) Result {
	s.mu.Lock()
	if s.state == LoadStateLoading {
		s.mu.Unlock()
		return fail("wishlist is already loading")
	}
	if s.userID == uuid.Nil {
		s.items = nil
		s.state = LoadStateReady
		s.mu.Unlock()
		return ok()
	}
	s.state = LoadStateLoading
	s.mu.Unlock()

	dto, err := s.gateway.GetWishlist(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.items = nil
		s.state = LoadStateUninitialized
		return fail("could not load wishlist")
	}
	s.items = dto.Items
	s.state = LoadStateReady
	return ok()
}

// Add saves a variant through the server. Saving an already saved variant
// succeeds without growing the list. Requires a signed-in user; nothing is
// sent otherwise.
func (s *WishlistStore) Add(ctx context.Context, variantID uuid.UUID) Result {
	if s.userID == uuid.Nil {
		return fail("login required")
	}
	release, result := s.acquire()
	if !result.Success {
		return result
	}
	defer release()

	dto, err := s.gateway.AddItem(ctx, s.userID, variantID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return fail("could not save to wishlist")
	}
	s.items = dto.Items
	s.state = LoadStateReady
	return ok()
}

// Remove drops the entry locally first, then confirms with the server. The
// snapshot comes back on failure. Removing an id that is not in the store
// leaves the local list alone but still issues the idempotent server delete.
func (s *WishlistStore) Remove(ctx context.Context, entryID uuid.UUID) Result {
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
		if s.items[i].ID == entryID {
			index = i
			break
		}
	}
	var snapshot []wishlist.WishlistItemDTO
	if index >= 0 {
		snapshot = make([]wishlist.WishlistItemDTO, len(s.items))
		copy(snapshot, s.items)
		s.items = append(s.items[:index], s.items[index+1:]...)
	}
	s.mu.Unlock()

	dto, err := s.gateway.RemoveItem(ctx, s.userID, entryID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if index >= 0 {
			s.items = snapshot
		}
		return fail("could not remove from wishlist")
	}
	s.items = dto.Items
	return ok()
}

// IsWishlisted reports whether the variant is saved. A linear scan is fine at
// wishlist sizes.
func (s *WishlistStore) IsWishlisted(variantID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Variant.ID == variantID {
			return true
		}
	}
	return false
}

// EntryIDFor resolves the wishlist entry id holding the variant.
func (s *WishlistStore) EntryIDFor(variantID uuid.UUID) (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].Variant.ID == variantID {
			return s.items[i].ID, true
		}
	}
	return uuid.Nil, false
}

// Items returns a copy of the current entries.
func (s *WishlistStore) Items() []wishlist.WishlistItemDTO {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]wishlist.WishlistItemDTO, len(s.items))
	copy(items, s.items)
	return items
}

// State reports the load-state machine position.
func (s *WishlistStore) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Busy reports whether a mutation is in flight.
func (s *WishlistStore) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *WishlistStore) acquire() (func(), Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return nil, fail("another wishlist update is in progress")
	}
	s.busy = true
	return func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}, ok()
}
