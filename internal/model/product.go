package model

import "time"

type Product struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	ImageKey     string    `json:"-"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	ThumbnailKey string    `json:"-"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Products []Product `json:"products"`
	MaxPage  int       `json:"max_page"`
	Total    int       `json:"total"`
}
