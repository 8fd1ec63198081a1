package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/repository"
)

var _ repository.CityRepository = (*CityRepo)(nil)

// CityRepo catálogo kaspi_cities.
type CityRepo struct {
	q Querier
}

// NewCityRepository construye el adaptador.
func NewCityRepository(q Querier) *CityRepo {
	return &CityRepo{q: q}
}

// ListActive ciudades habilitadas para precios por ciudad del feed.
func (r *CityRepo) ListActive(ctx context.Context) ([]*entity.City, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, region, is_active FROM kaspi_cities WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list kaspi_cities: %w", err)
	}
	defer rows.Close()
	var list []*entity.City
	for rows.Next() {
		var c entity.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Region, &c.IsActive); err != nil {
			return nil, fmt.Errorf("scan kaspi_city: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
