// Package auth issues and verifies the stateless session tokens handed out at
// registration and login.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/crtrstudio/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenValidity is the session lifetime used when none is configured.
const DefaultTokenValidity = 7 * 24 * time.Hour

// Claims carries the user identity embedded in a session token.
type Claims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 session tokens with a process-wide
// secret.
type TokenService struct {
	secretKey        []byte
	validityDuration time.Duration
	now              func() time.Time
}

// NewTokenService fails with common.ErrMissingSecret when secretKey is empty.
func NewTokenService(secretKey []byte, validityDuration time.Duration) (*TokenService, error) {
	if len(secretKey) == 0 {
		return nil, common.ErrMissingSecret
	}
	if validityDuration == 0 {
		validityDuration = DefaultTokenValidity
	}
	return &TokenService{
		secretKey:        secretKey,
		validityDuration: validityDuration,
		now:              time.Now,
	}, nil
}

// Issue mints a token for userID/email valid for the configured lifetime.
func (s *TokenService) Issue(userID, email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.validityDuration)),
		},
	})

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry. Every failure matches
// common.ErrInvalidToken; expired tokens also match common.ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// ExtractBearerToken returns the token from a "Bearer <token>" header value.
// A missing or malformed header yields ok == false rather than an error.
func ExtractBearerToken(header string) (token string, ok bool) {
	scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \t") {
		return "", false
	}
	return value, true
}
