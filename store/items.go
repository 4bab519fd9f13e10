package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Tanish431/CC-BackProj-3/models"
)

const itemColumns = `item_id, name, description, category, price, quantity, image_url, created, restocked`

// ItemFilter narrows catalog listings. Zero values mean "no filter".
type ItemFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func scanItem(row interface{ Scan(...any) error }) (models.Item, error) {
	var it models.Item
	err := row.Scan(&it.ID, &it.Name, &it.Description, &it.Category,
		&it.Price, &it.Quantity, &it.ImageURL, &it.Created, &it.Restocked)
	return it, err
}

func (s *Store) ListItems(ctx context.Context, f ItemFilter) ([]models.Item, error) {
	var where []string
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		where = append(where, "price >= $"+strconv.Itoa(len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		where = append(where, "price <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY item_id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, persistence("list items", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, persistence("list items", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("list items", err)
	}
	return items, nil
}

func (s *Store) GetItem(ctx context.Context, id int) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE item_id = $1`, id)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return nil, persistence("get item", err)
	}
	return &it, nil
}

func (s *Store) CreateItem(ctx context.Context, req models.NewItemRequest) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO items (name, description, category, quantity, price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+itemColumns,
		req.Name, req.Description, req.Category, req.Quantity, req.Price, req.ImageURL)
	it, err := scanItem(row)
	if err != nil {
		return nil, persistence("create item", err)
	}
	return &it, nil
}

func (s *Store) UpdateItem(ctx context.Context, id int, req models.UpdateItemRequest) (*models.Item, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE items SET
			name        = COALESCE($2, name),
			description = COALESCE($3, description),
			category    = COALESCE($4, category),
			price       = COALESCE($5, price),
			image_url   = COALESCE($6, image_url)
		WHERE item_id = $1
		RETURNING `+itemColumns,
		id, req.Name, req.Description, req.Category, req.Price, req.ImageURL)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return nil, persistence("update item", err)
	}
	return &it, nil
}

// Restock adds quantity to an item's stock as a single atomic update; it
// never reads the old quantity into memory first.
func (s *Store) Restock(ctx context.Context, id, quantity int) (*models.Item, error) {
	if quantity <= 0 {
		return nil, &InvalidQuantityError{ItemID: id, Quantity: quantity}
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE items SET quantity = quantity + $2, restocked = NOW()
		WHERE item_id = $1
		RETURNING `+itemColumns,
		id, quantity)
	it, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &ItemNotFoundError{ItemID: id}
	}
	if err != nil {
		return nil, persistence("restock item", err)
	}
	return &it, nil
}

func (s *Store) LowStock(ctx context.Context, threshold int) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE quantity <= $1 ORDER BY quantity, item_id`,
		threshold)
	if err != nil {
		return nil, persistence("low stock report", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, persistence("low stock report", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("low stock report", err)
	}
	return items, nil
}

// ImportItems inserts a batch of catalog rows in one transaction, used by
// CSV bulk upload. Returns the number of rows inserted.
func (s *Store) ImportItems(ctx context.Context, reqs []models.NewItemRequest) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, persistence("begin import", err)
	}
	defer tx.Rollback()

	for _, req := range reqs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO items (name, description, category, quantity, price, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			req.Name, req.Description, req.Category, req.Quantity, req.Price, req.ImageURL,
		); err != nil {
			return 0, persistence("import items", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, persistence("commit import", err)
	}
	return len(reqs), nil
}
