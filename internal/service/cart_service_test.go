package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-shop-backend/internal/model"
)

// fakeCartStore keeps carts in memory with the same whole-cart
// read/replace contract as the Postgres repository.
type fakeCartStore struct {
	carts    map[string]model.Cart
	products map[string]model.Product
}

func newFakeCartStore(products ...model.Product) *fakeCartStore {
	s := &fakeCartStore{
		carts:    make(map[string]model.Cart),
		products: make(map[string]model.Product),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *fakeCartStore) GetCart(_ context.Context, userID string) (model.Cart, error) {
	return s.carts[userID], nil
}

func (s *fakeCartStore) ReplaceCart(_ context.Context, userID string, cart model.Cart) error {
	s.carts[userID] = cart
	return nil
}

func (s *fakeCartStore) GetPopulatedCart(_ context.Context, userID string) ([]model.PopulatedCartItem, error) {
	var out []model.PopulatedCartItem
	for _, item := range s.carts[userID].Items {
		product, ok := s.products[item.ProductID]
		if !ok {
			continue
		}
		out = append(out, model.PopulatedCartItem{Product: product, Quantity: item.Quantity})
	}
	return out, nil
}

func newCartFixture(t *testing.T) (*CartService, *fakeCartStore, *mockProductStore) {
	t.Helper()

	store := newFakeCartStore(
		model.Product{ID: "p1", Title: "Mug", Price: 9.99},
		model.Product{ID: "p2", Title: "Shirt", Price: 24.99},
	)
	products := new(mockProductStore)
	return NewCartService(store, products), store, products
}

func TestCartService_Add(t *testing.T) {
	ctx := context.Background()

	t.Run("adding twice merges quantities", func(t *testing.T) {
		svc, store, products := newCartFixture(t)
		products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1"}, nil)

		require.NoError(t, svc.Add(ctx, "user-1", "p1", 2))
		require.NoError(t, svc.Add(ctx, "user-1", "p1", 3))

		cart := store.carts["user-1"]
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("unknown product never reaches the cart", func(t *testing.T) {
		svc, store, products := newCartFixture(t)
		products.On("FindByID", mock.Anything, "ghost").Return(model.Product{}, model.ErrProductNotFound)

		err := svc.Add(ctx, "user-1", "ghost", 1)

		assert.ErrorIs(t, err, model.ErrProductNotFound)
		assert.Empty(t, store.carts["user-1"].Items)
	})

	t.Run("carts are per user", func(t *testing.T) {
		svc, store, products := newCartFixture(t)
		products.On("FindByID", mock.Anything, mock.Anything).Return(model.Product{ID: "p1"}, nil)

		require.NoError(t, svc.Add(ctx, "user-1", "p1", 1))
		require.NoError(t, svc.Add(ctx, "user-2", "p2", 4))

		require.Len(t, store.carts["user-1"].Items, 1)
		require.Len(t, store.carts["user-2"].Items, 1)
		assert.Equal(t, "p1", store.carts["user-1"].Items[0].ProductID)
		assert.Equal(t, "p2", store.carts["user-2"].Items[0].ProductID)
	})
}

func TestCartService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the matching entry only", func(t *testing.T) {
		svc, store, products := newCartFixture(t)
		products.On("FindByID", mock.Anything, mock.Anything).Return(model.Product{}, nil)

		require.NoError(t, svc.Add(ctx, "user-1", "p1", 1))
		require.NoError(t, svc.Add(ctx, "user-1", "p2", 2))

		require.NoError(t, svc.Remove(ctx, "user-1", "p1"))

		cart := store.carts["user-1"]
		require.Len(t, cart.Items, 1)
		assert.Equal(t, "p2", cart.Items[0].ProductID)
	})

	t.Run("removing an absent product is a no-op", func(t *testing.T) {
		svc, _, _ := newCartFixture(t)
		assert.NoError(t, svc.Remove(ctx, "user-1", "never-added"))
	})
}

func TestCartService_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("increment and decrement", func(t *testing.T) {
		svc, store, products := newCartFixture(t)
		products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1"}, nil)

		require.NoError(t, svc.Add(ctx, "user-1", "p1", 2))

		require.NoError(t, svc.Adjust(ctx, "user-1", "p1", model.AdjustIncrement))
		assert.Equal(t, 3, store.carts["user-1"].Items[0].Quantity)

		require.NoError(t, svc.Adjust(ctx, "user-1", "p1", model.AdjustDecrement))
		assert.Equal(t, 2, store.carts["user-1"].Items[0].Quantity)
	})

	t.Run("decrementing the last unit removes the entry", func(t *testing.T) {
		svc, store, products := newCartFixture(t)
		products.On("FindByID", mock.Anything, "p1").Return(model.Product{ID: "p1"}, nil)

		require.NoError(t, svc.Add(ctx, "user-1", "p1", 1))
		require.NoError(t, svc.Adjust(ctx, "user-1", "p1", model.AdjustDecrement))

		assert.Empty(t, store.carts["user-1"].Items)
	})

	t.Run("adjusting an absent product fails", func(t *testing.T) {
		svc, _, _ := newCartFixture(t)

		err := svc.Adjust(ctx, "user-1", "p1", model.AdjustIncrement)
		assert.ErrorIs(t, err, model.ErrCartItemNotFound)
	})
}

func TestCartService_Get(t *testing.T) {
	ctx := context.Background()

	svc, _, products := newCartFixture(t)
	products.On("FindByID", mock.Anything, mock.Anything).Return(model.Product{}, nil)

	require.NoError(t, svc.Add(ctx, "user-1", "p2", 3))
	require.NoError(t, svc.Add(ctx, "user-1", "p1", 1))

	items, err := svc.Get(ctx, "user-1")

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Shirt", items[0].Product.Title)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Mug", items[1].Product.Title)
}
