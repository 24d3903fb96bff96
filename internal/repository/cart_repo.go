package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-shop-backend/internal/model"
)

// CartRepository persists the cart aggregate. Reads hand the whole cart to
// the pure transformation functions in model; writes replace the aggregate
// in one transaction. There is no locking across the read-modify-write, so
// two concurrent updates to the same user's cart are last-write-wins.
type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) GetCart(ctx context.Context, userID string) (model.Cart, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity, added_at
		 FROM cart_items WHERE user_id = $1
		 ORDER BY added_at, product_id`, userID)
	if err != nil {
		return model.Cart{}, fmt.Errorf("get cart: %w", err)
	}
	defer rows.Close()

	items := make([]model.CartItem, 0)
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.AddedAt); err != nil {
			return model.Cart{}, fmt.Errorf("scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return model.Cart{Items: items}, rows.Err()
}

// ReplaceCart overwrites the user's stored cart with the given aggregate.
func (r *CartRepository) ReplaceCart(ctx context.Context, userID string, cart model.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace cart: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	for _, item := range cart.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO cart_items (user_id, product_id, quantity, added_at)
			 VALUES ($1, $2, $3, $4)`,
			userID, item.ProductID, item.Quantity, item.AddedAt)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace cart: %w", err)
	}
	return nil
}

// GetPopulatedCart joins cart entries with the products they reference,
// preserving cart order.
func (r *CartRepository) GetPopulatedCart(ctx context.Context, userID string) ([]model.PopulatedCartItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.title, p.price, p.description, p.image_url, p.image_key,
		        p.thumbnail_url, p.thumbnail_key, p.user_id, p.created_at, p.updated_at,
		        ci.quantity
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.added_at, ci.product_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("get populated cart: %w", err)
	}
	defer rows.Close()

	items := make([]model.PopulatedCartItem, 0)
	for rows.Next() {
		var entry model.PopulatedCartItem
		p := &entry.Product
		err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Description, &p.ImageURL, &p.ImageKey,
			&p.ThumbnailURL, &p.ThumbnailKey, &p.UserID, &p.CreatedAt, &p.UpdatedAt,
			&entry.Quantity)
		if err != nil {
			return nil, fmt.Errorf("scan populated cart item: %w", err)
		}
		items = append(items, entry)
	}
	return items, rows.Err()
}

// PurgeProduct removes the product from every cart system-wide. Run before
// deleting the product row so the foreign key never dangles.
func (r *CartRepository) PurgeProduct(ctx context.Context, productID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("purge product from carts: %w", err)
	}
	return nil
}
