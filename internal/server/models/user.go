// Package models defines the records persisted by the skywatch server.
package models

import "time"

// User is a registered account. Email is stored lowercased.
type User struct {
	ID           string    `json:"id" db:"id"`
	UserName     string    `json:"user_name" db:"user_name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
