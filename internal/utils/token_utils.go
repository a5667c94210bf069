package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims carries the tenant-scoped session inside the JWT.
type SessionClaims struct {
	TenantID        string `json:"tid,omitempty"`
	Role            string `json:"role,omitempty"`
	IsPlatformAdmin bool   `json:"padm,omitempty"`
	ImpersonatorID  string `json:"imp,omitempty"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a token carrying the session claims.
func GenerateJWT(claims SessionClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// NewSessionClaims builds the registered claim set for a user session.
func NewSessionClaims(userID, issuer string, expiryDuration time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
}

// ParseAndValidateJWT parses a token string, validates its signature and
// standard claims, and returns the session claims.
func ParseAndValidateJWT(tokenString string, secretKey string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}

	return claims, nil
}
