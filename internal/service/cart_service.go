package service

import (
	"context"
	"time"

	"go-shop-backend/internal/model"
)

// CartStore is the slice of the cart repository the service needs. The
// cart is read and written as a whole; concurrent writes to the same
// user's cart resolve last-write-wins.
type CartStore interface {
	GetCart(ctx context.Context, userID string) (model.Cart, error)
	ReplaceCart(ctx context.Context, userID string, cart model.Cart) error
	GetPopulatedCart(ctx context.Context, userID string) ([]model.PopulatedCartItem, error)
}

// ProductFinder checks that a product exists before it enters a cart.
type ProductFinder interface {
	FindByID(ctx context.Context, id string) (model.Product, error)
}

type CartService struct {
	carts    CartStore
	products ProductFinder
	now      func() time.Time
}

func NewCartService(carts CartStore, products ProductFinder) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Get returns the user's cart with each entry joined to its product.
func (s *CartService) Get(ctx context.Context, userID string) ([]model.PopulatedCartItem, error) {
	return s.carts.GetPopulatedCart(ctx, userID)
}

// Add puts quantity units of the product into the cart, merging with an
// existing entry. The product must exist in the catalog.
func (s *CartService) Add(ctx context.Context, userID string, productID string, quantity int) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	return s.carts.ReplaceCart(ctx, userID, cart.Add(productID, quantity, s.now()))
}

// Remove drops the product's entry from the cart. Removing a product that
// is not in the cart is a no-op.
func (s *CartService) Remove(ctx context.Context, userID string, productID string) error {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	return s.carts.ReplaceCart(ctx, userID, cart.Remove(productID))
}

// Adjust increments or decrements the quantity of an existing entry; a
// decrement to zero removes it. Adjusting an absent product fails with
// ErrCartItemNotFound.
func (s *CartService) Adjust(ctx context.Context, userID string, productID string, direction model.AdjustDirection) error {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return err
	}

	adjusted, err := cart.Adjust(productID, direction)
	if err != nil {
		return err
	}

	return s.carts.ReplaceCart(ctx, userID, adjusted)
}
