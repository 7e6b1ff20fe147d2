package alerts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/dmitrijs2005/skywatch/internal/dbx"
	"github.com/dmitrijs2005/skywatch/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, alert *models.Alert) (*models.Alert, error) {
	query :=
		`INSERT INTO alerts (message, city)
		 VALUES ($1, $2)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query, alert.Message, alert.City).Scan(&alert.ID, &alert.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return alert, nil
}

func (r *PostgresRepository) FindByCity(ctx context.Context, city string) (*models.Alert, error) {
	query :=
		`SELECT id, message, city, created_at FROM alerts
		 WHERE city = $1
		 ORDER BY id
		 LIMIT 1
		 `

	alert := &models.Alert{}
	err := r.db.QueryRowContext(ctx, query, city).Scan(&alert.ID, &alert.Message, &alert.City, &alert.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return alert, nil
}
