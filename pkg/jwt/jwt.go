// Package jwt emite y valida los tokens de sesión de los usuarios de loja (HS256).
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret sin JWT_SECRET no se emiten ni validan tokens.
	ErrNoSecret = errors.New("jwt: secret vacío")
	// ErrInvalidToken firma, expiración o formato inválidos.
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// clockSkew tolerancia entre relojes de la caja y del servidor.
const clockSkew = 30 * time.Second

// Claims de sesión: quién opera, en qué loja y con qué rol.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	StoreID string `json:"store_id"`
	Role    string `json:"role"` // ADMIN | MANAGER | CASHIER
}

// Generate firma un token para el usuario que expira en expMinutes.
func Generate(secret, userID, storeID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	issuedAt := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:  userID,
		StoreID: storeID,
		Role:    role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("jwt: firmar: %w", err)
	}
	return signed, nil
}

// Parse verifica firma HS256 y expiración. Cualquier rechazo cumple errors.Is(err, ErrInvalidToken).
func Parse(secret, raw string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(clockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: sin user_id", ErrInvalidToken)
	}
	return &claims, nil
}
