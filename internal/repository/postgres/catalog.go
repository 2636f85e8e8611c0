package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/prettystyles/booking-api/internal/model"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

func (r *catalogRepository) Get(ctx context.Context, id string) (*model.CatalogService, error) {
	query := `SELECT id, name, duration, price FROM catalog_services WHERE id = $1`

	var svc model.CatalogService
	err := r.db.GetContext(ctx, &svc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("service", err)
	}
	if err != nil {
		return nil, apperrors.NewUnavailable("catalog store", fmt.Errorf("failed to get service: %w", err))
	}
	return &svc, nil
}

func (r *catalogRepository) List(ctx context.Context) ([]*model.CatalogService, error) {
	query := `SELECT id, name, duration, price FROM catalog_services ORDER BY price ASC`

	var services []*model.CatalogService
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, apperrors.NewUnavailable("catalog store", fmt.Errorf("failed to list services: %w", err))
	}
	return services, nil
}
