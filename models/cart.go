package models

type CartItem struct {
	ItemID   int     `json:"item_id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	ImageURL *string `json:"image_url,omitempty"`
}

type CartView struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

type CartRequest struct {
	ItemID   int `json:"itemId" binding:"required"`
	Quantity int `json:"quantity"`
}

type CartRemoveRequest struct {
	ItemID int `json:"itemId" binding:"required"`
}
