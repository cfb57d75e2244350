package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken signs an HS256 token carrying the caller identity.
func GenerateToken(caller Caller, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not set")
	}
	claims := jwt.MapClaims{
		"id":    caller.ID,
		"email": caller.Email,
		"role":  caller.Role,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry and rebuilds the caller.
func ParseToken(tokenString, secret string) (Caller, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Caller{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Caller{}, errors.New("invalid token")
	}

	caller := Caller{}
	if id, ok := claims["id"].(string); ok {
		caller.ID = id
	}
	if email, ok := claims["email"].(string); ok {
		caller.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		caller.Role = role
	}
	if caller.ID == "" || caller.Role == "" {
		return Caller{}, errors.New("token missing identity claims")
	}
	return caller, nil
}
