package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCartAdd(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	t.Run("appends a new entry with default quantity", func(t *testing.T) {
		cart := Cart{}.Add("p1", 0, now)

		require.Len(t, cart.Items, 1)
		require.Equal(t, "p1", cart.Items[0].ProductID)
		require.Equal(t, 1, cart.Items[0].Quantity)
	})

	t.Run("merges quantities for the same product into a single entry", func(t *testing.T) {
		cart := Cart{}.Add("p1", 2, now)
		cart = cart.Add("p1", 3, now)

		require.Len(t, cart.Items, 1)
		require.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("preserves insertion order across products", func(t *testing.T) {
		cart := Cart{}.Add("p1", 1, now).Add("p2", 1, now).Add("p1", 1, now)

		require.Len(t, cart.Items, 2)
		require.Equal(t, "p1", cart.Items[0].ProductID)
		require.Equal(t, "p2", cart.Items[1].ProductID)
	})

	t.Run("does not mutate the original cart", func(t *testing.T) {
		original := Cart{}.Add("p1", 1, now)
		_ = original.Add("p1", 4, now)

		require.Equal(t, 1, original.Items[0].Quantity)
	})
}

func TestCartRemove(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	t.Run("removes only the matching entry", func(t *testing.T) {
		cart := Cart{}.Add("p1", 1, now).Add("p2", 2, now)
		cart = cart.Remove("p1")

		require.Len(t, cart.Items, 1)
		require.Equal(t, "p2", cart.Items[0].ProductID)
	})

	t.Run("is a no-op for an absent product", func(t *testing.T) {
		cart := Cart{}.Add("p1", 1, now)
		cart = cart.Remove("missing")

		require.Len(t, cart.Items, 1)
	})
}

func TestCartAdjust(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	t.Run("increment adds one", func(t *testing.T) {
		cart := Cart{}.Add("p1", 2, now)
		cart, err := cart.Adjust("p1", AdjustIncrement)

		require.NoError(t, err)
		require.Equal(t, 3, cart.Items[0].Quantity)
	})

	t.Run("decrement at quantity one removes the entry", func(t *testing.T) {
		cart := Cart{}.Add("p1", 1, now).Add("p2", 1, now)
		cart, err := cart.Adjust("p1", AdjustDecrement)

		require.NoError(t, err)
		require.False(t, cart.Contains("p1"))
		require.True(t, cart.Contains("p2"))
	})

	t.Run("absent product fails and leaves the cart unchanged", func(t *testing.T) {
		cart := Cart{}.Add("p1", 2, now)
		after, err := cart.Adjust("missing", AdjustIncrement)

		require.ErrorIs(t, err, ErrCartItemNotFound)
		require.Equal(t, cart.Items, after.Items)
	})

	t.Run("full quantity walk from the shop scenario", func(t *testing.T) {
		// add x2, increment to 3, decrement twice to 1, decrement empties.
		cart := Cart{}.Add("P", 2, now)
		require.Equal(t, 2, cart.Items[0].Quantity)

		cart, err := cart.Adjust("P", AdjustIncrement)
		require.NoError(t, err)
		require.Equal(t, 3, cart.Items[0].Quantity)

		for i := 0; i < 2; i++ {
			cart, err = cart.Adjust("P", AdjustDecrement)
			require.NoError(t, err)
		}
		require.Equal(t, 1, cart.Items[0].Quantity)

		cart, err = cart.Adjust("P", AdjustDecrement)
		require.NoError(t, err)
		require.Empty(t, cart.Items)
	})
}
