package mockserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidAlgorithm = errors.New("invalid signing algorithm")
	ErrWeakSecretKey    = errors.New("secret key must be at least 32 characters")
	ErrInvalidDuration  = errors.New("duration must be positive")
)

// Claims is the content of the auth-id cookie. ID carries the session id.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and checks session cookies
type TokenService struct {
	secret   []byte
	duration time.Duration
}

func NewTokenService(secret string, duration time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, ErrWeakSecretKey
	}
	if duration <= 0 {
		return nil, ErrInvalidDuration
	}
	return &TokenService{secret: []byte(secret), duration: duration}, nil
}

// Generate signs a token bound to sessionID
func (s *TokenService) Generate(sessionID, username string, now time.Time) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate checks the signature and lifetime of a token
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidAlgorithm
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.ID != "" {
		return claims, nil
	}
	return nil, ErrInvalidToken
}
