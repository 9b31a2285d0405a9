package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hamdiboyraz/restaurant-review/internal/domain"
	"github.com/hamdiboyraz/restaurant-review/pkg/middleware"
)

// tokenClaims mirrors the OIDC profile claims carried by the identity
// provider's access tokens.
type tokenClaims struct {
	PreferredUsername string `json:"preferred_username"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
	jwt.RegisteredClaims
}

// JWTManager validates HS256-signed access tokens and extracts identity
// claims from them. Tokens are issued by an external identity provider; this
// service only verifies and reads them.
type JWTManager struct {
	secret []byte
}

// NewJWTManager creates a JWT manager with the given shared secret.
func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret)}
}

// Validate parses and verifies a token, returning its identity claims. It
// satisfies middleware.TokenValidator.
func (m *JWTManager) Validate(tokenString string) (*middleware.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid access token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("access token has no subject")
	}

	return &middleware.Claims{
		Subject:           claims.Subject,
		PreferredUsername: claims.PreferredUsername,
		GivenName:         claims.GivenName,
		FamilyName:        claims.FamilyName,
	}, nil
}

// GenerateToken creates a signed token carrying the given identity. Used by
// tests and local tooling; production tokens come from the identity provider.
func (m *JWTManager) GenerateToken(subject, username, givenName, familyName string, expiry time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := &tokenClaims{
		PreferredUsername: username,
		GivenName:         givenName,
		FamilyName:        familyName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedToken, nil
}

// UserFromClaims maps verified token claims to the domain user snapshot
// embedded in reviews.
func UserFromClaims(claims *middleware.Claims) domain.User {
	return domain.User{
		ID:         claims.Subject,
		Username:   claims.PreferredUsername,
		GivenName:  claims.GivenName,
		FamilyName: claims.FamilyName,
	}
}
