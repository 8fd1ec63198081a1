package entity

import "time"

// Roles válidos (tabla user_roles).
const (
	RoleAdmin   = "admin"
	RolePartner = "partner"
	RoleUser    = "user"
)

// Profile usuario del panel (tabla profiles).
type Profile struct {
	ID               string
	Email            string
	PasswordHash     string // bcrypt hash, nunca plano en dominio después de persistir
	FullName         string
	Phone            string
	Role             string
	SelectedStoreID  string
	EmailConfirmedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EmailConfirmed informa si el usuario ya confirmó su email.
func (p *Profile) EmailConfirmed() bool {
	return p.EmailConfirmedAt != nil
}

// EmailConfirmation token de confirmación de email pendiente.
type EmailConfirmation struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}
