package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmorales-dev/vestra-backend/internal/cart"
)

type fakeCartGateway struct {
	items       []cart.CartItemDTO
	failNext    bool
	getCalls    int
	addCalls    int
	removeCalls int
	lastInput   *cart.AddItemInput
}

func (f *fakeCartGateway) dto() *cart.CartDTO {
	items := make([]cart.CartItemDTO, len(f.items))
	copy(items, f.items)
	return &cart.CartDTO{Items: items}
}

func (f *fakeCartGateway) GetCart(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	f.getCalls++
	if f.failNext {
		f.failNext = false
		return nil, errors.New("gateway down")
	}
	return f.dto(), nil
}

func (f *fakeCartGateway) AddItem(ctx context.Context, userID uuid.UUID, input cart.AddItemInput) (*cart.CartDTO, error) {
	f.addCalls++
	if f.failNext {
		f.failNext = false
		return nil, errors.New("gateway down")
	}
	f.lastInput = &input
	f.items = append(f.items, cart.CartItemDTO{
		ID:             uuid.New(),
		SelectedSize:   input.SelectedSize,
		Quantity:       input.Quantity,
		LineTotalCents: 1000 * int64(input.Quantity),
	})
	return f.dto(), nil
}

func (f *fakeCartGateway) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cart.CartDTO, error) {
	if f.failNext {
		f.failNext = false
		return nil, errors.New("gateway down")
	}
	for i := range f.items {
		if f.items[i].ID == itemID {
			f.items[i].Quantity = quantity
		}
	}
	return f.dto(), nil
}

func (f *fakeCartGateway) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cart.CartDTO, error) {
	f.removeCalls++
	if f.failNext {
		f.failNext = false
		return nil, errors.New("gateway down")
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return f.dto(), nil
}

func TestCartStoreLoadStateMachine(t *testing.T) {
	gateway := &fakeCartGateway{}
	store := NewCartStore(uuid.New(), gateway)

	assert.Equal(t, LoadStateUninitialized, store.State())

	result := store.Load(context.Background())
	require.True(t, result.Success)
	assert.Equal(t, LoadStateReady, store.State())
	assert.Equal(t, 1, gateway.getCalls)
}

func TestCartStoreLoadFailureResets(t *testing.T) {
	gateway := &fakeCartGateway{}
	store := NewCartStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)
	require.True(t, store.Add(context.Background(), cart.AddItemInput{VariantID: uuid.New(), SelectedSize: "M", Quantity: 2}).Success)
	require.NotEmpty(t, store.Items())

	gateway.failNext = true
	result := store.Load(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, LoadStateUninitialized, store.State())
	// The stale lines from before the failed refresh are gone too.
	assert.Empty(t, store.Items())
	assert.Zero(t, store.TotalCents())
	assert.Zero(t, store.ItemCount())

	// A later load succeeds.
	result = store.Load(context.Background())
	assert.True(t, result.Success)
	assert.Len(t, store.Items(), 1)
}

func TestCartStoreSignedOut(t *testing.T) {
	gateway := &fakeCartGateway{}
	store := NewCartStore(uuid.Nil, gateway)

	result := store.Load(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, LoadStateReady, store.State())
	assert.Empty(t, store.Items())
	assert.Zero(t, gateway.getCalls)

	result = store.Add(context.Background(), cart.AddItemInput{VariantID: uuid.New(), SelectedSize: "M", Quantity: 1})
	assert.False(t, result.Success)
	assert.Equal(t, "login required", result.Message)
	assert.Zero(t, gateway.addCalls)

	result = store.UpdateQuantity(context.Background(), uuid.New(), 3)
	assert.False(t, result.Success)
	assert.Equal(t, "login required", result.Message)

	result = store.Remove(context.Background(), uuid.New())
	assert.False(t, result.Success)
	assert.Equal(t, "login required", result.Message)
	assert.Zero(t, gateway.removeCalls)
}

func TestCartStoreAddUpdatesLocalCopy(t *testing.T) {
	gateway := &fakeCartGateway{}
	store := NewCartStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)

	result := store.Add(context.Background(), cart.AddItemInput{
		VariantID:    uuid.New(),
		SelectedSize: "M",
		Quantity:     2,
	})
	require.True(t, result.Success)
	assert.Len(t, store.Items(), 1)
	assert.Equal(t, 2, store.ItemCount())
	assert.Equal(t, int64(2000), store.TotalCents())
	assert.False(t, store.Busy())
}

func TestCartStoreRemoveUnknownIDStillDeletesRemotely(t *testing.T) {
	gateway := &fakeCartGateway{}
	store := NewCartStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)
	require.True(t, store.Add(context.Background(), cart.AddItemInput{VariantID: uuid.New(), SelectedSize: "M", Quantity: 1}).Success)

	result := store.Remove(context.Background(), uuid.New())
	assert.True(t, result.Success)
	assert.Len(t, store.Items(), 1)
	// The delete still went to the server even though nothing matched locally.
	assert.Equal(t, 1, gateway.removeCalls)
}

func TestCartStoreRemoveRollsBackOnFailure(t *testing.T) {
	gateway := &fakeCartGateway{}
	store := NewCartStore(uuid.New(), gateway)
	require.True(t, store.Load(context.Background()).Success)
	require.True(t, store.Add(context.Background(), cart.AddItemInput{VariantID: uuid.New(), SelectedSize: "M", Quantity: 1}).Success)

	itemID := store.Items()[0].ID
	gateway.failNext = true

	result := store.Remove(context.Background(), itemID)
	assert.False(t, result.Success)
	// The optimistic removal was rolled back.
	require.Len(t, store.Items(), 1)
	assert.Equal(t, itemID, store.Items()[0].ID)

	// Retrying after the gateway recovers drops the line for real.
	result = store.Remove(context.Background(), itemID)
	assert.True(t, result.Success)
	assert.Empty(t, store.Items())
}
