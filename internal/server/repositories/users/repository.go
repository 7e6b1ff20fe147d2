// Package users persists registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/skywatch/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills CreatedAt. A duplicate email yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail matches email case-insensitively and returns
	// common.ErrorNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}
