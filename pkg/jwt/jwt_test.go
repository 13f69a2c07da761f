package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/varejo-api/pkg/jwt"
)

const (
	testSecret  = "test-secret-key-for-unit-tests"
	testUserID  = "00000000-0000-0000-0000-000000000001"
	testStoreID = "00000000-0000-0000-0000-000000000002"
	testIssuer  = "varejo-api-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testStoreID, "MANAGER", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testStoreID, claims.StoreID)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testStoreID, "ADMIN", testIssuer, -5)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken, "token expirado debe retornar error")
}

func TestParse_RechazaOtrosAlgoritmos(t *testing.T) {
	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           testUserID,
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)

	none, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(testSecret, none)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_SinUsuarioOSinExpiracion(t *testing.T) {
	sinUsuario, err := pkgjwt.Generate(testSecret, "", testStoreID, "ADMIN", testIssuer, 60)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(testSecret, sinUsuario)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)

	sinExp, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, pkgjwt.Claims{UserID: testUserID}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = pkgjwt.Parse(testSecret, sinExp)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testStoreID, "ADMIN", testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrInvalidToken, "secret incorrecto debe invalidar el token")
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := pkgjwt.Generate("", testUserID, testStoreID, "ADMIN", testIssuer, 60)
	assert.ErrorIs(t, err, pkgjwt.ErrNoSecret)

	_, err = pkgjwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, pkgjwt.ErrNoSecret)
}
