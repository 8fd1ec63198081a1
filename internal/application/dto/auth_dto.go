package dto

import "time"

// RegisterRequest entrada para registro: email, password y promo code opcional del socio.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	PromoCode string `json:"promo_code"`
}

// RegisterResponse usuario creado. ConfirmationToken solo se expone en development.
type RegisterResponse struct {
	User              ProfileResponse `json:"user"`
	ConfirmationToken string          `json:"confirmation_token,omitempty"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string          `json:"token"`
	User  ProfileResponse `json:"user"`
}

// ConfirmEmailRequest token recibido por email.
type ConfirmEmailRequest struct {
	Token string `json:"token"`
}

// ProfileResponse salida de un perfil (sin password).
type ProfileResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone,omitempty"`
	Role            string     `json:"role"`
	SelectedStoreID string     `json:"selected_store_id,omitempty"`
	EmailConfirmed  bool       `json:"email_confirmed"`
	ConfirmedAt     *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
