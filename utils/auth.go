package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// DefaultTokenTTL is the lifetime of an access token: one year
const DefaultTokenTTL = 365 * 24 * time.Hour

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures and missing claims
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for a well formed token past its expiry
	ErrTokenExpired = errors.New("token expired")
)

// Claims represents the JWT claims
type Claims struct {
	Email string `json:"email"`
	jwt.StandardClaims
}

// TokenService signs and verifies access tokens carrying the caller's email
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenService creates a TokenService signing with secret. A ttl of 0
// falls back to DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue generates a JWT token for email
func (ts *TokenService) Issue(email string) (string, error) {
	issued := ts.now()
	claims := &Claims{
		Email: email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  issued.Unix(),
			ExpiresAt: issued.Add(ts.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// Verify validates signature and expiry and returns the email claim.
func (ts *TokenService) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return ts.key, nil
	})

	var verr *jwt.ValidationError
	if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
		return "", ErrTokenExpired
	}
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Email == "" || claims.ExpiresAt == 0 {
		return "", ErrTokenInvalid
	}
	return claims.Email, nil
}
