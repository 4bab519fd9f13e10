package models

import "time"

// OrderLine is a purchased line item. UnitPrice is the price captured when
// the order was placed, not the item's current price.
type OrderLine struct {
	ItemID    int     `json:"item_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category,omitempty"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	ImageURL  *string `json:"image_url,omitempty"`
}

type Order struct {
	ID         int         `json:"id"`
	Status     string      `json:"status"`
	TotalPrice float64     `json:"total_price"`
	Created    time.Time   `json:"created"`
	Username   string      `json:"username,omitempty"`
	Items      []OrderLine `json:"items"`
}

type OrderRequest struct {
	Items []OrderLineRequest `json:"items"`
}

type OrderLineRequest struct {
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
}
