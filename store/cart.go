package store

import (
	"context"

	"github.com/Tanish431/CC-BackProj-3/models"
)

// AddToCart upserts a cart entry, incrementing the desired quantity if the
// item is already in the cart. Cart quantities are desired amounts; stock is
// only checked at checkout.
func (s *Store) AddToCart(ctx context.Context, userID, itemID, quantity int) error {
	if quantity <= 0 {
		return &InvalidQuantityError{ItemID: itemID, Quantity: quantity}
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM items WHERE item_id = $1)`, itemID,
	).Scan(&exists)
	if err != nil {
		return persistence("check item", err)
	}
	if !exists {
		return &ItemNotFoundError{ItemID: itemID}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, item_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_id) DO
		UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		userID, itemID, quantity)
	if err != nil {
		return persistence("add to cart", err)
	}
	return nil
}

// CartInfo returns the user's cart with a running total at current catalog
// prices. The total is informational; the binding price is captured at
// checkout.
func (s *Store) CartInfo(ctx context.Context, userID int) (*models.CartView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ci.item_id, i.name, i.category, i.price, ci.quantity, i.image_url
		FROM cart_items ci
		JOIN items i ON i.item_id = ci.item_id
		WHERE ci.user_id = $1
		ORDER BY ci.item_id`,
		userID)
	if err != nil {
		return nil, persistence("read cart", err)
	}
	defer rows.Close()

	view := &models.CartView{Items: []models.CartItem{}}
	for rows.Next() {
		var it models.CartItem
		if err := rows.Scan(&it.ItemID, &it.Name, &it.Category, &it.Price, &it.Quantity, &it.ImageURL); err != nil {
			return nil, persistence("read cart", err)
		}
		view.Items = append(view.Items, it)
		view.Total += it.Price * float64(it.Quantity)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("read cart", err)
	}
	view.Total = roundCents(view.Total)
	return view, nil
}

func (s *Store) RemoveFromCart(ctx context.Context, userID, itemID int) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND item_id = $2`,
		userID, itemID)
	if err != nil {
		return persistence("remove from cart", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistence("remove from cart", err)
	}
	if n == 0 {
		return &ItemNotFoundError{ItemID: itemID}
	}
	return nil
}
