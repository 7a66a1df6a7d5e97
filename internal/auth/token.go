package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

// ErrInvalidToken indicates the token failed signature, format, or expiry checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims embeds the registered JWT claims plus the profile fields the
// client renders without a follow-up request. Subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
}

// GenerateToken mints a signed HS256 session token for the user.
// The returned token ID (jti) is registered in the server-side session
// allow-list so the token can be revoked before expiry.
func GenerateToken(user *model.User, secret []byte, ttl time.Duration) (token string, tokenID string, err error) {
	tokenID = uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    user.Email,
		Username: user.Username,
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", fmt.Errorf("sign token: %w", err)
	}

	return token, tokenID, nil
}

// ParseToken validates the token signature and expiry and returns its claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
