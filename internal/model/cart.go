package model

import "time"

type AdjustDirection string

const (
	AdjustIncrement AdjustDirection = "increment"
	AdjustDecrement AdjustDirection = "decrement"
)

type CartItem struct {
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// Cart is an ordered collection of cart items. At most one item per
// product; a quantity that drops to zero removes the item instead of
// leaving a zero entry. The transformation methods below are pure: they
// return a new item slice and never mutate the receiver, so a caller can
// persist the result as a whole-aggregate write.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add merges quantity into an existing entry for the product or appends a
// new one at the end. quantity values below 1 are treated as 1.
func (c Cart) Add(productID string, quantity int, now time.Time) Cart {
	if quantity < 1 {
		quantity = 1
	}

	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity += quantity
			return Cart{Items: items}
		}
	}

	return Cart{Items: append(items, CartItem{
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   now.UTC(),
	})}
}

// Remove filters out the entry for the product. Removing a product that is
// not in the cart is a no-op, not an error.
func (c Cart) Remove(productID string) Cart {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ProductID == productID {
			continue
		}
		items = append(items, item)
	}

	return Cart{Items: items}
}

// Adjust increments or decrements the quantity of an existing entry by
// one. A decrement that reaches zero removes the entry entirely. Adjusting
// a product that is not in the cart returns ErrCartItemNotFound and the
// cart unchanged.
func (c Cart) Adjust(productID string, direction AdjustDirection) (Cart, error) {
	for i, item := range c.Items {
		if item.ProductID != productID {
			continue
		}

		items := make([]CartItem, len(c.Items))
		copy(items, c.Items)

		switch direction {
		case AdjustIncrement:
			items[i].Quantity++
		case AdjustDecrement:
			items[i].Quantity--
			if items[i].Quantity <= 0 {
				items = append(items[:i], items[i+1:]...)
			}
		default:
			return c, ErrInvalidInput
		}

		return Cart{Items: items}, nil
	}

	return c, ErrCartItemNotFound
}

// Contains reports whether the cart holds an entry for the product.
func (c Cart) Contains(productID string) bool {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// PopulatedCartItem is a cart entry joined with the product it references,
// the shape returned by the cart endpoints.
type PopulatedCartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}
