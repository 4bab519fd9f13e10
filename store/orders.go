package store

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Tanish431/CC-BackProj-3/models"
)

// orderSelect aggregates each order's lines into a JSON array so one round
// trip returns orders with their frozen line prices.
const orderSelect = `
	SELECT
		o.order_id,
		o.status,
		o.total_price,
		o.created,
		u.username,
		json_agg(
			json_build_object(
				'item_id', oi.item_id,
				'name', i.name,
				'category', i.category,
				'quantity', oi.quantity,
				'unit_price', oi.unit_price,
				'image_url', i.image_url
			) ORDER BY oi.item_id
		) AS items
	FROM orders o
	JOIN users u ON u.user_id = o.user_id
	JOIN order_items oi ON oi.order_id = o.order_id
	JOIN items i ON i.item_id = oi.item_id`

func scanOrders(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		var o models.Order
		var itemsJSON []byte
		if err := rows.Scan(&o.ID, &o.Status, &o.TotalPrice, &o.Created, &o.Username, &itemsJSON); err != nil {
			return nil, persistence("scan order", err)
		}
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, persistence("decode order lines", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("scan order", err)
	}
	return orders, nil
}

// PastOrders returns the user's order history, newest first.
func (s *Store) PastOrders(ctx context.Context, userID int) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, orderSelect+`
		WHERE o.user_id = $1
		GROUP BY o.order_id, o.status, o.total_price, o.created, u.username
		ORDER BY o.created DESC`,
		userID)
	if err != nil {
		return nil, persistence("list past orders", err)
	}
	defer rows.Close()
	return scanOrders(rows)
}

// OrderFilter narrows the admin order search. Zero values mean "no filter".
type OrderFilter struct {
	ItemName string
	Category string
	MinTotal *float64
	MaxTotal *float64
	Username string
	Page     int
	Limit    int
}

// OrderPage is one page of filtered orders for downstream reporting.
type OrderPage struct {
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
	Data       []models.Order `json:"data"`
}

// SearchOrders filters the order ledger by total-price range, purchased
// item name/category and buyer username, paginated. Read-only.
func (s *Store) SearchOrders(ctx context.Context, f OrderFilter) (*OrderPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	var where []string
	var args []any
	if f.MinTotal != nil {
		args = append(args, *f.MinTotal)
		where = append(where, "o.total_price >= $"+strconv.Itoa(len(args)))
	}
	if f.MaxTotal != nil {
		args = append(args, *f.MaxTotal)
		where = append(where, "o.total_price <= $"+strconv.Itoa(len(args)))
	}
	if f.Username != "" {
		args = append(args, f.Username)
		where = append(where, "u.username = $"+strconv.Itoa(len(args)))
	}
	if f.ItemName != "" {
		args = append(args, "%"+f.ItemName+"%")
		where = append(where, "i.name ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, "i.category = $"+strconv.Itoa(len(args)))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	countQuery := `
		SELECT COUNT(DISTINCT o.order_id)
		FROM orders o
		JOIN users u ON u.user_id = o.user_id
		JOIN order_items oi ON oi.order_id = o.order_id
		JOIN items i ON i.item_id = oi.item_id` + clause
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, persistence("count orders", err)
	}

	pageArgs := append(args, f.Limit, (f.Page-1)*f.Limit)
	query := orderSelect + clause + `
		GROUP BY o.order_id, o.status, o.total_price, o.created, u.username
		ORDER BY o.created DESC
		LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	rows, err := s.db.QueryContext(ctx, query, pageArgs...)
	if err != nil {
		return nil, persistence("search orders", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}

	totalPages := (total + f.Limit - 1) / f.Limit
	return &OrderPage{
		Total:      total,
		Page:       f.Page,
		Limit:      f.Limit,
		TotalPages: totalPages,
		Data:       orders,
	}, nil
}

// Revenue sums unit_price x quantity over every order line ever written.
// Frozen line prices make this stable under later catalog price changes.
func (s *Store) Revenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(unit_price * quantity), 0) FROM order_items`,
	).Scan(&revenue)
	if err != nil {
		return 0, persistence("revenue report", err)
	}
	return revenue, nil
}
