package auth

import (
	"errors"
	"strconv"
	"time"

	"signboard-admin/internal/clock"
	"signboard-admin/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims defines what is inside the token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Session returns the caller identity carried by the claims.
func (c *Claims) Session() Session {
	return Session{UserID: strconv.FormatUint(uint64(c.UserID), 10), Role: c.Role}
}

// Tokens signs and checks HS256 tokens.
type Tokens struct {
	key    []byte
	ttl    time.Duration
	issuer string
	clock  clock.Clock
}

func NewTokens(secret string, ttl time.Duration, issuer string, c clock.Clock) *Tokens {
	if c == nil {
		c = clock.System()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{key: []byte(secret), ttl: ttl, issuer: issuer, clock: c}
}

// GenerateToken creates a signed JWT for a user.
func (t *Tokens) GenerateToken(userID uint, role string) (string, error) {
	now := t.clock.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.key)
}

// ValidateToken checks signature, expiry and role.
func (t *Tokens) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || !models.ValidRole(claims.Role) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
