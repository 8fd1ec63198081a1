package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kaspi-panel-api/internal/application/auth"
	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/domain"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	pkgjwt "github.com/jhoicas/kaspi-panel-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

// ── Fakes ────────────────────────────────────────────────────────────────────

type memProfiles struct {
	mu   sync.Mutex
	byID map[string]*entity.Profile
}

func (m *memProfiles) Create(_ context.Context, p *entity.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Email == p.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memProfiles) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (m *memProfiles) GetByEmail(_ context.Context, email string) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memProfiles) SetSelectedStore(context.Context, string, string) error { return nil }

func (m *memProfiles) ListSelectedStores(context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

func (m *memProfiles) ConfirmEmail(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	m.byID[userID].EmailConfirmedAt = &now
	return nil
}

func (m *memProfiles) SetRole(context.Context, string, string) error { return nil }

type memConfirmations struct {
	mu     sync.Mutex
	tokens map[string]*entity.EmailConfirmation
}

func (m *memConfirmations) Create(_ context.Context, c *entity.EmailConfirmation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.tokens[c.Token] = &cp
	return nil
}

func (m *memConfirmations) GetByToken(_ context.Context, token string) (*entity.EmailConfirmation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.tokens[token]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (m *memConfirmations) MarkUsed(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.tokens[token]
	if !ok {
		return domain.ErrNotFound
	}
	if c.UsedAt != nil {
		return domain.ErrConflict
	}
	now := time.Now()
	c.UsedAt = &now
	return nil
}

type fakeReferrals struct {
	userID, promo, ip string
	err               error
}

func (f *fakeReferrals) RecordConversion(_ context.Context, userID, promo, ip string) (bool, error) {
	f.userID, f.promo, f.ip = userID, promo, ip
	return f.err == nil, f.err
}

type authFixture struct {
	profiles *memProfiles
	confirms *memConfirmations
	refs     *fakeReferrals
	uc       *auth.AuthUseCase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		profiles: &memProfiles{byID: map[string]*entity.Profile{}},
		confirms: &memConfirmations{tokens: map[string]*entity.EmailConfirmation{}},
		refs:     &fakeReferrals{},
	}
	f.uc = auth.NewAuthUseCase(f.profiles, f.confirms, f.refs,
		auth.JWTConfig{Secret: testSecret, ExpMinutes: 60, Issuer: "kaspi-panel-test"}, true, zerolog.Nop())
	return f
}

func (f *authFixture) register(t *testing.T) *dto.RegisterResponse {
	t.Helper()
	out, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: " Seller@Example.KZ ", Password: "super-secret", FullName: "Асель", PromoCode: "KASPI20",
	}, "10.0.0.1")
	require.NoError(t, err)
	return out
}

// ── Register ─────────────────────────────────────────────────────────────────

func TestRegister_PerfilSinConfirmarYConversion(t *testing.T) {
	f := newAuthFixture()
	out := f.register(t)

	assert.Equal(t, "seller@example.kz", out.User.Email)
	assert.Equal(t, entity.RoleUser, out.User.Role)
	assert.False(t, out.User.EmailConfirmed)
	assert.Len(t, out.ConfirmationToken, 64)

	assert.Equal(t, out.User.ID, f.refs.userID)
	assert.Equal(t, "KASPI20", f.refs.promo)
	assert.Equal(t, "10.0.0.1", f.refs.ip)

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{Email: "seller@example.kz", Password: "otra-clave"}, "")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_FalloDeAtribucionNoImpideRegistro(t *testing.T) {
	f := newAuthFixture()
	f.refs.err = assert.AnError

	out := f.register(t)
	assert.NotEmpty(t, out.User.ID)
}

func TestRegister_Validaciones(t *testing.T) {
	f := newAuthFixture()

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{Email: "sin-arroba", Password: "12345678"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Register(context.Background(), dto.RegisterRequest{Email: "a@b.kz", Password: "1234"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ── Login / Confirm ──────────────────────────────────────────────────────────

func TestLogin_RequiereEmailConfirmado(t *testing.T) {
	f := newAuthFixture()
	reg := f.register(t)
	ctx := context.Background()
	in := dto.LoginRequest{Email: "seller@example.kz", Password: "super-secret"}

	_, err := f.uc.Login(ctx, in)
	assert.ErrorIs(t, err, domain.ErrEmailNotConfirmed)

	confirmed, err := f.uc.ConfirmEmail(ctx, reg.ConfirmationToken)
	require.NoError(t, err)
	assert.True(t, confirmed.EmailConfirmed)

	out, err := f.uc.Login(ctx, in)
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, claims.UserID)
	assert.Equal(t, entity.RoleUser, claims.Role)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "seller@example.kz", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.kz", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestConfirmEmail_TokenUsadoOVencido(t *testing.T) {
	f := newAuthFixture()
	reg := f.register(t)
	ctx := context.Background()

	_, err := f.uc.ConfirmEmail(ctx, reg.ConfirmationToken)
	require.NoError(t, err)
	_, err = f.uc.ConfirmEmail(ctx, reg.ConfirmationToken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.ConfirmEmail(ctx, "desconocido")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	f.confirms.tokens["viejo"] = &entity.EmailConfirmation{Token: "viejo", UserID: reg.User.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	_, err = f.uc.ConfirmEmail(ctx, "viejo")
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestAdminConfirmYMe(t *testing.T) {
	f := newAuthFixture()
	reg := f.register(t)
	ctx := context.Background()

	out, err := f.uc.AdminConfirm(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.True(t, out.EmailConfirmed)

	me, err := f.uc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Асель", me.FullName)
	assert.True(t, me.EmailConfirmed)

	_, err = f.uc.AdminConfirm(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
