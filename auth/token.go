// Package auth verifies the short-lived credential clients present when
// opening a live connection. Issuing long-term credentials happens in the
// account service; this package only mints and checks connect tokens.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Auhnip/chat-app-backend/domain"
	apperrors "github.com/Auhnip/chat-app-backend/errors"
)

const issuer = "chat-app-backend"

// ConnectClaims is the payload carried by a connect token.
type ConnectClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenVerifier checks connect tokens with an HMAC secret loaded from
// configuration.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) TokenVerifier {
	return TokenVerifier{secret: []byte(secret)}
}

// Mint creates a signed connect token for a user. Used by the HTTP layer
// after the account service has authenticated the user, and by the debug
// client.
func (v TokenVerifier) Mint(userID domain.UserID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &ConnectClaims{
		UserID: string(userID),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Verify parses the token, checks signature and expiry, and returns the
// authenticated user. Any failure maps to ErrInvalidCredential so the
// transport can terminate without leaking details to the peer.
func (v TokenVerifier) Verify(tokenString string) (domain.UserID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ConnectClaims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", apperrors.ErrInvalidCredential
	}

	claims, ok := token.Claims.(*ConnectClaims)
	if !ok || !token.Valid || !domain.UserID(claims.UserID).Valid() {
		return "", apperrors.ErrInvalidCredential
	}
	return domain.UserID(claims.UserID), nil
}
