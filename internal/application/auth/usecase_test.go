package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Comercial-api/internal/application/auth"
	"github.com/jhoicas/Comercial-api/internal/application/dto"
	"github.com/jhoicas/Comercial-api/internal/application/testsupport"
	"github.com/jhoicas/Comercial-api/internal/domain"
	"github.com/jhoicas/Comercial-api/internal/domain/entity"
)

func newAuthUC(store *testsupport.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(store.UserRepo(), auth.JWTConfig{
		Secret:     "test-secret",
		ExpMinutes: 60,
		Issuer:     "comercial-api-test",
	})
}

func TestRegisterUser_HasheaPasswordYAsignaRolPorDefecto(t *testing.T) {
	store := testsupport.NewStore()
	uc := newAuthUC(store)

	out, err := uc.RegisterUser(dto.RegisterRequest{
		Email:    "ana@example.com",
		Password: "secreto-123",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, entity.RoleVendedor, out.Role, "rol por defecto")
	assert.Equal(t, "active", out.Status)

	stored := store.Users[out.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto-123", stored.PasswordHash, "el password nunca se guarda en claro")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreto-123")))
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	store := testsupport.NewStore()
	uc := newAuthUC(store)

	_, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "secreto-123"})
	require.NoError(t, err)

	_, err = uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "otro-pass"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_RolDesconocido(t *testing.T) {
	store := testsupport.NewStore()
	uc := newAuthUC(store)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@example.com", Password: "secreto-123", Role: "superusuario",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_CredencialesValidas(t *testing.T) {
	store := testsupport.NewStore()
	uc := newAuthUC(store)

	_, err := uc.RegisterUser(dto.RegisterRequest{
		Email: "ana@example.com", Password: "secreto-123", Role: entity.RoleAdmin,
	})
	require.NoError(t, err)

	out, err := uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "secreto-123"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, entity.RoleAdmin, out.User.Role)
}

func TestLogin_Rechazos(t *testing.T) {
	store := testsupport.NewStore()
	uc := newAuthUC(store)

	reg, err := uc.RegisterUser(dto.RegisterRequest{Email: "ana@example.com", Password: "secreto-123"})
	require.NoError(t, err)

	_, err = uc.Login(dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "incorrecto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	store.Users[reg.ID].Status = "suspended"
	_, err = uc.Login(dto.LoginRequest{Email: "ana@example.com", Password: "secreto-123"})
	assert.ErrorIs(t, err, domain.ErrForbidden, "usuario suspendido no entra")
}
