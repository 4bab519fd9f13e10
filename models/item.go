package models

import "time"

type Item struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Created     time.Time `json:"created"`
	Restocked   time.Time `json:"restocked"`
}

type NewItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url"`
}

// UpdateItemRequest carries a partial update; nil fields are left untouched.
// Quantity is deliberately absent: stock moves only through restock and checkout.
type UpdateItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}
