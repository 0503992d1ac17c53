package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/parasjain182005/Travel-Website/pkg/errors"
	"github.com/parasjain182005/Travel-Website/pkg/middleware"
)

// TokenTTL is the lifetime of every access token.
const TokenTTL = 15 * 24 * time.Hour

const issuer = "travel-api"

// Claims are the JWT claims carried by an access token.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies HS256 access tokens.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager creates a manager signing with secret.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// Issue signs a token for userID and role and returns it with its expiry.
func (m *JWTManager) Issue(userID, role string) (string, time.Time, error) {
	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses token and returns its claims. Any failure, including
// expiry, is reported as an unauthorized error.
func (m *JWTManager) Verify(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, &apperrors.AppError{Code: "TOKEN_EXPIRED", Message: "token has expired", Status: http.StatusUnauthorized, Err: errors.Join(apperrors.ErrUnauthorized, err)}
		}
		return nil, &apperrors.AppError{Code: "UNAUTHORIZED", Message: "invalid token", Status: http.StatusUnauthorized, Err: errors.Join(apperrors.ErrUnauthorized, err)}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, apperrors.Unauthorized("invalid token claims")
	}
	return claims, nil
}

// TokenValidator adapts Verify to the auth middleware.
func (m *JWTManager) TokenValidator() middleware.TokenValidator {
	return func(token string) (*middleware.Claims, error) {
		c, err := m.Verify(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{UserID: c.UserID, Role: c.Role}, nil
	}
}
