package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/varejo-api/internal/application/auth"
	"github.com/jhoicas/varejo-api/internal/application/dto"
	"github.com/jhoicas/varejo-api/internal/domain"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/internal/infrastructure/memory"
	"github.com/jhoicas/varejo-api/pkg/jwt"
)

const secret = "auth-usecase-test-secret"

func newAuth(t *testing.T, jwtSecret string) *auth.AuthUseCase {
	t.Helper()
	db := memory.NewDB()
	ctx := context.Background()
	require.NoError(t, memory.NewCompanyRepository(db).Create(ctx, &entity.Company{ID: "c1", Name: "Rede", CNPJ: "1"}))
	require.NoError(t, memory.NewStoreRepository(db).Create(ctx, &entity.Store{ID: "s1", CompanyID: "c1", Name: "Centro", IsActive: true}))
	return auth.NewAuthUseCase(memory.NewUserRepository(db), memory.NewStoreRepository(db), auth.JWTConfig{
		Secret: jwtSecret, ExpMinutes: 30, Issuer: "varejo-api-test",
	})
}

func TestRegisterYLogin(t *testing.T) {
	uc := newAuth(t, secret)
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{StoreID: "s1", Email: " Gerente@Loja.COM ", Password: "senha-forte", Role: entity.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "gerente@loja.com", user.Email)
	assert.Equal(t, "gerente@loja.com", user.Name)
	assert.Equal(t, entity.RoleManager, user.Role)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "gerente@loja.com", Password: "senha-forte"})
	require.NoError(t, err)
	claims, err := jwt.Parse(secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "s1", claims.StoreID)
	assert.Equal(t, entity.RoleManager, claims.Role)
}

func TestRegister_RolPorDefectoYDuplicados(t *testing.T) {
	uc := newAuth(t, secret)
	ctx := context.Background()

	user, err := uc.RegisterUser(ctx, dto.RegisterRequest{StoreID: "s1", Email: "caixa@loja.com", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCashier, user.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{StoreID: "s1", Email: "CAIXA@loja.com", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrEmailAlreadyExists))

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{StoreID: "nope", Email: "outro@loja.com", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLogin_Errores(t *testing.T) {
	uc := newAuth(t, secret)
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{StoreID: "s1", Email: "a@loja.com", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@loja.com", Password: "errada"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ninguem@loja.com", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	disabled := newAuth(t, "")
	_, err = disabled.Login(ctx, dto.LoginRequest{Email: "a@loja.com", Password: "12345678"})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
