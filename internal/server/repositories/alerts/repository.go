// Package alerts persists city-scoped alerts.
package alerts

import (
	"context"

	"github.com/dmitrijs2005/skywatch/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, alert *models.Alert) (*models.Alert, error)
	// FindByCity returns the oldest alert for city or common.ErrorNotFound.
	FindByCity(ctx context.Context, city string) (*models.Alert, error)
}
