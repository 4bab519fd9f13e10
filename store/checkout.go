package store

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"sort"

	"github.com/Tanish431/CC-BackProj-3/models"
)

// Receipt is returned for every successful checkout.
type Receipt struct {
	OrderID    int     `json:"orderId"`
	TotalPrice float64 `json:"totalPrice"`
}

// frozenLine is a validated line with the unit price captured under the
// item's row lock.
type frozenLine struct {
	itemID    int
	quantity  int
	unitPrice float64
}

// lineSource yields the lines for one checkout attempt. It runs inside the
// checkout transaction so the cart flow reads entries that cannot change
// underneath the attempt.
type lineSource func(ctx context.Context, tx *sql.Tx) ([]models.OrderLineRequest, error)

// PlaceOrder creates an order directly from a client-supplied item list,
// bypassing the cart. Duplicate item IDs are merged by summing quantities.
func (s *Store) PlaceOrder(ctx context.Context, userID int, lines []models.OrderLineRequest) (*Receipt, error) {
	normalized, err := normalizeLines(lines)
	if err != nil {
		return nil, err
	}
	source := func(context.Context, *sql.Tx) ([]models.OrderLineRequest, error) {
		return normalized, nil
	}
	return s.checkout(ctx, userID, source, false)
}

// CheckoutCart converts the user's cart into an order. The cart is read and
// cleared inside the same transaction that decrements stock, so a failed
// checkout leaves the cart untouched.
func (s *Store) CheckoutCart(ctx context.Context, userID int) (*Receipt, error) {
	return s.checkout(ctx, userID, s.cartLines(userID), true)
}

func (s *Store) checkout(ctx context.Context, userID int, source lineSource, clearCart bool) (*Receipt, error) {
	return retryOnConflict(func() (*Receipt, error) {
		return s.checkoutOnce(ctx, userID, source, clearCart)
	})
}

// retryOnConflict runs one checkout attempt and retries once with fresh
// reads if the transactional layer reports a serialization conflict. A
// second conflict surfaces as ErrConflictRetryExhausted; any other error
// passes through unretried.
func retryOnConflict(attempt func() (*Receipt, error)) (*Receipt, error) {
	receipt, err := attempt()
	if err == nil || !isSerializationConflict(err) {
		return receipt, err
	}
	receipt, err = attempt()
	if err != nil && isSerializationConflict(err) {
		return nil, ErrConflictRetryExhausted
	}
	return receipt, err
}

func (s *Store) checkoutOnce(ctx context.Context, userID int, source lineSource, clearCart bool) (*Receipt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistence("begin checkout", err)
	}
	defer tx.Rollback()

	lines, err := source(ctx, tx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	// Lines arrive in ascending item ID so concurrent checkouts that touch
	// overlapping item sets acquire row locks in the same order.
	var total float64
	frozen := make([]frozenLine, 0, len(lines))
	for _, ln := range lines {
		var price float64
		var available int
		err := tx.QueryRowContext(ctx,
			`SELECT price, quantity FROM items WHERE item_id = $1 FOR UPDATE`,
			ln.ItemID,
		).Scan(&price, &available)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ItemNotFoundError{ItemID: ln.ItemID}
		}
		if err != nil {
			return nil, persistence("lock item row", err)
		}
		if ln.Quantity > available {
			return nil, &InsufficientStockError{
				ItemID:    ln.ItemID,
				Requested: ln.Quantity,
				Available: available,
			}
		}

		// Conditional decrement. The row is locked above, but the stock
		// predicate keeps the decrement correct on its own.
		res, err := tx.ExecContext(ctx,
			`UPDATE items SET quantity = quantity - $1
			 WHERE item_id = $2 AND quantity >= $1`,
			ln.Quantity, ln.ItemID,
		)
		if err != nil {
			return nil, persistence("decrement stock", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, persistence("decrement stock", err)
		}
		if n == 0 {
			return nil, &InsufficientStockError{
				ItemID:    ln.ItemID,
				Requested: ln.Quantity,
				Available: available,
			}
		}

		total += price * float64(ln.Quantity)
		frozen = append(frozen, frozenLine{itemID: ln.ItemID, quantity: ln.Quantity, unitPrice: price})
	}
	total = roundCents(total)

	var orderID int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO orders (user_id, total_price) VALUES ($1, $2) RETURNING order_id`,
		userID, total,
	).Scan(&orderID)
	if err != nil {
		return nil, persistence("create order", err)
	}

	for _, fl := range frozen {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, item_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4)`,
			orderID, fl.itemID, fl.quantity, fl.unitPrice,
		); err != nil {
			return nil, persistence("create order line", err)
		}
	}

	if clearCart {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cart_items WHERE user_id = $1`, userID,
		); err != nil {
			return nil, persistence("clear cart", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isSerializationConflict(err) {
			return nil, err
		}
		return nil, persistence("commit checkout", err)
	}
	return &Receipt{OrderID: orderID, TotalPrice: total}, nil
}

// cartLines reads the user's cart entries inside the checkout transaction,
// already ordered by item ID.
func (s *Store) cartLines(userID int) lineSource {
	return func(ctx context.Context, tx *sql.Tx) ([]models.OrderLineRequest, error) {
		rows, err := tx.QueryContext(ctx,
			`SELECT item_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY item_id`,
			userID,
		)
		if err != nil {
			return nil, persistence("read cart", err)
		}
		defer rows.Close()

		var lines []models.OrderLineRequest
		for rows.Next() {
			var ln models.OrderLineRequest
			if err := rows.Scan(&ln.ItemID, &ln.Quantity); err != nil {
				return nil, persistence("read cart", err)
			}
			lines = append(lines, ln)
		}
		if err := rows.Err(); err != nil {
			return nil, persistence("read cart", err)
		}
		return lines, nil
	}
}

// normalizeLines validates quantities, merges duplicate item IDs by summing
// their quantities, and sorts ascending by item ID so every checkout locks
// rows in the same order.
func normalizeLines(lines []models.OrderLineRequest) ([]models.OrderLineRequest, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	merged := make(map[int]int, len(lines))
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, &InvalidQuantityError{ItemID: ln.ItemID, Quantity: ln.Quantity}
		}
		merged[ln.ItemID] += ln.Quantity
	}
	out := make([]models.OrderLineRequest, 0, len(merged))
	for id, qty := range merged {
		out = append(out, models.OrderLineRequest{ItemID: id, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
