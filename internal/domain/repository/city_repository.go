package repository

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// CityRepository catálogo kaspi_cities (poblado por cmd/seed_cities).
type CityRepository interface {
	ListActive(ctx context.Context) ([]*entity.City, error)
}
