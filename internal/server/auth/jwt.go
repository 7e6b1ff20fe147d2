// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is what a session token asserts about its bearer.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Claims is the JWT payload: the identity plus the standard registered claims.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// GenerateToken signs an HS256 token for id. A non-positive validity
// produces a token without an exp claim.
func GenerateToken(id Identity, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(validity))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}

// ParseToken verifies the token signature and returns its claims.
// Expired tokens yield common.ErrTokenExpired; every other failure,
// including a non-HMAC alg header, yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, common.ErrInvalidToken
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
