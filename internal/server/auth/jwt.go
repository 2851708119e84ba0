// Package auth issues and verifies the JWTs handed out on login and hashes
// passwords for storage.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the single application claim, userId, next to the
// registered exp/iat (and iss/aud when configured).
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenConfig configures a TokenIssuer. Issuer and Audience are optional;
// whatever is set is both written on signing and required on verification.
type TokenConfig struct {
	SecretKey []byte
	Issuer    string
	Audience  string
	Lifetime  time.Duration
}

// TokenIssuer signs and verifies HS512 tokens.
type TokenIssuer struct {
	secret   []byte
	issuer   string
	audience string
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenIssuer returns an error wrapping common.ErrConfiguration when the
// secret is empty or the lifetime is not positive.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.SecretKey) == 0 {
		return nil, fmt.Errorf("%w: jwt secret key is empty", common.ErrConfiguration)
	}
	if cfg.Lifetime <= 0 {
		return nil, fmt.Errorf("%w: token lifetime must be positive", common.ErrConfiguration)
	}
	secret := make([]byte, len(cfg.SecretKey))
	copy(secret, cfg.SecretKey)

	return &TokenIssuer{
		secret:   secret,
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		lifetime: cfg.Lifetime,
		now:      time.Now,
	}, nil
}

// Issue mints a token for userID expiring Lifetime from now.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.lifetime)),
			Issuer:    t.issuer,
		},
	}
	if t.audience != "" {
		claims.Audience = jwt.ClaimStrings{t.audience}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature, algorithm, expiry and the configured iss/aud and
// returns the userId claim.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}
	if t.audience != "" {
		opts = append(opts, jwt.WithAudience(t.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
