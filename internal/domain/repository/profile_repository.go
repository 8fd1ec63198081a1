package repository

import (
	"context"

	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
)

// ProfileRepository define el puerto de persistencia para profiles y user_roles.
type ProfileRepository interface {
	Create(ctx context.Context, p *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByEmail(ctx context.Context, email string) (*entity.Profile, error)
	SetSelectedStore(ctx context.Context, userID, storeID string) error
	// ListSelectedStores userID -> tienda seleccionada, solo perfiles con selección.
	ListSelectedStores(ctx context.Context) (map[string]string, error)
	ConfirmEmail(ctx context.Context, userID string) error
	SetRole(ctx context.Context, userID, role string) error
}

// EmailConfirmationRepository tokens de confirmación de email.
type EmailConfirmationRepository interface {
	Create(ctx context.Context, c *entity.EmailConfirmation) error
	GetByToken(ctx context.Context, token string) (*entity.EmailConfirmation, error)
	MarkUsed(ctx context.Context, token string) error
}
