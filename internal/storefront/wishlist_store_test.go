package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmorales-dev/vestra-backend/internal/catalog"
	"github.com/lmorales-dev/vestra-backend/internal/wishlist"
)

type fakeWishlistGateway struct {
	items       []wishlist.WishlistItemDTO
	failNext    bool
	getCalls    int
	addCalls    int
	removeCalls int
}

func (f *fakeWishlistGateway) dto() *wishlist.WishlistDTO {
	items := make([]wishlist.WishlistItemDTO, len(f.items))
	copy(items, f.items)
	return &wishlist.WishlistDTO{Items: items}
}

func (f *fakeWishlistGateway) GetWishlist(ctx context.Context, userID uuid.UUID) (*wishlist.WishlistDTO, error) {
	f.getCalls++
	if f.failNext {
		f.failNext = false
		return nil, errors.New("gateway down")
	}
	return f.dto(), nil
}

func (f *fakeWishlistGateway) AddItem(ctx context.Context, userID, variantID uuid.UUID) (*wishlist.WishlistDTO, error) {
	f.addCalls++
	if f.failNext {
		f.failNext = false
		return nil, errors.New("gateway down")
	}
	for _, item := range f.items {
		if item.Variant.ID == variantID {
			return f.dto(), nil
		}
	}
	f.items = append(f.items, wishlist.WishlistItemDTO{
		ID:      uuid.New(),
		Variant: catalog.VariantDTO{ID: variantID},
	})
	return f.dto(), nil
}

func (f *fakeWishlistGateway) RemoveItem(ctx context.Context, userID, entryID uuid.UUID) (*wishlist.WishlistDTO, error) {
	f.removeCalls++
	if f.failNext {
		f.failNext = false
		return nil, errors.New("gateway down")
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if item.ID != entryID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return f.dto(), nil
}

func TestWishlistStoreAddAndMembership(t *testing.T) {
	gateway := &fakeWishlistGateway{}
	store := NewWishlistStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)

	variantID := uuid.New()
	assert.False(t, store.IsWishlisted(variantID))

	require.True(t, store.Add(context.Background(), variantID).Success)
	assert.True(t, store.IsWishlisted(variantID))

	entryID, found := store.EntryIDFor(variantID)
	require.True(t, found)

	require.True(t, store.Remove(context.Background(), entryID).Success)
	assert.False(t, store.IsWishlisted(variantID))
	_, found = store.EntryIDFor(variantID)
	assert.False(t, found)
}

func TestWishlistStoreDuplicateAddKeepsOneEntry(t *testing.T) {
	gateway := &fakeWishlistGateway{}
	store := NewWishlistStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)

	variantID := uuid.New()
	require.True(t, store.Add(context.Background(), variantID).Success)
	require.True(t, store.Add(context.Background(), variantID).Success)

	assert.Len(t, store.Items(), 1)
}

func TestWishlistStoreRemoveRollsBackOnFailure(t *testing.T) {
	gateway := &fakeWishlistGateway{}
	store := NewWishlistStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)

	variantID := uuid.New()
	require.True(t, store.Add(context.Background(), variantID).Success)
	entryID, _ := store.EntryIDFor(variantID)

	gateway.failNext = true
	result := store.Remove(context.Background(), entryID)
	assert.False(t, result.Success)
	assert.True(t, store.IsWishlisted(variantID))

	require.True(t, store.Remove(context.Background(), entryID).Success)
	assert.False(t, store.IsWishlisted(variantID))
}

func TestWishlistStoreRemoveUnknownIDStillDeletesRemotely(t *testing.T) {
	gateway := &fakeWishlistGateway{}
	store := NewWishlistStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)
	require.True(t, store.Add(context.Background(), uuid.New()).Success)

	result := store.Remove(context.Background(), uuid.New())
	assert.True(t, result.Success)
	assert.Len(t, store.Items(), 1)
	// The delete still went to the server even though nothing matched locally.
	assert.Equal(t, 1, gateway.removeCalls)
}

func TestWishlistStoreLoadFailureResets(t *testing.T) {
	gateway := &fakeWishlistGateway{}
	store := NewWishlistStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)
	require.True(t, store.Add(context.Background(), uuid.New()).Success)
	require.NotEmpty(t, store.Items())

	gateway.failNext = true
	result := store.Load(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, LoadStateUninitialized, store.State())
	assert.Empty(t, store.Items())
}

func TestWishlistStoreSignedOut(t *testing.T) {
	gateway := &fakeWishlistGateway{}
	store := NewWishlistStore(uuid.Nil, gateway)

	result := store.Load(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, LoadStateReady, store.State())
	assert.Empty(t, store.Items())
	assert.Zero(t, gateway.getCalls)

	result = store.Add(context.Background(), uuid.New())
	assert.False(t, result.Success)
	assert.Equal(t, "login required", result.Message)
	assert.Zero(t, gateway.addCalls)

	result = store.Remove(context.Background(), uuid.New())
	assert.False(t, result.Success)
	assert.Equal(t, "login required", result.Message)
	assert.Zero(t, gateway.removeCalls)
}
