package models

import "time"

// Alert is a free-text notice attached to a city. Message and City are
// stored lowercased.
type Alert struct {
	ID        int64     `json:"id" db:"id"`
	Message   string    `json:"message" db:"message"`
	City      string    `json:"city" db:"city"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
