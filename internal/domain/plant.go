package domain

import "time"

// Plant описывает запись каталога растений
type Plant struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Price        float64   `json:"price"`
	Categories   []string  `json:"categories"`
	Availability bool      `json:"availability"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Description  *string   `json:"description,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
