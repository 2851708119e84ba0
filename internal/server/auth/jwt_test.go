package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/seniko/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIssuer(t *testing.T, cfg TokenConfig) *TokenIssuer {
	t.Helper()
	if cfg.Lifetime == 0 {
		cfg.Lifetime = 24 * time.Hour
	}
	ti, err := NewTokenIssuer(cfg)
	require.NoError(t, err)
	return ti
}

func decodePayload(t *testing.T, tok string) map[string]any {
	t.Helper()
	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	return payload
}

func TestNewTokenIssuer_MissingSecret(t *testing.T) {
	_, err := NewTokenIssuer(TokenConfig{Lifetime: time.Hour})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfiguration))

	_, err = NewTokenIssuer(TokenConfig{SecretKey: []byte("k")})
	assert.True(t, errors.Is(err, common.ErrConfiguration))
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	ti := newIssuer(t, TokenConfig{SecretKey: []byte("super-secret")})

	tok, err := ti.Issue("user-123")
	require.NoError(t, err)

	got, err := ti.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got)
}

func TestIssue_ClaimsShape(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ti := newIssuer(t, TokenConfig{SecretKey: []byte("k")})
	ti.now = func() time.Time { return now }

	tok, err := ti.Issue("u-1")
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, &Claims{})
	require.NoError(t, err)
	assert.Equal(t, "HS512", parsed.Method.Alg())

	payload := decodePayload(t, tok)
	assert.Equal(t, "u-1", payload["userId"])
	assert.EqualValues(t, now.Add(24*time.Hour).Unix(), payload["exp"])
	assert.NotContains(t, payload, "iss")
	assert.NotContains(t, payload, "aud")

	var custom []string
	for k := range payload {
		if k != "exp" && k != "iat" {
			custom = append(custom, k)
		}
	}
	assert.Equal(t, []string{"userId"}, custom)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	ti := newIssuer(t, TokenConfig{SecretKey: []byte("secret")})
	issuedAt := time.Now().Add(-25 * time.Hour)
	ti.now = func() time.Time { return issuedAt }

	tok, err := ti.Issue("u1")
	require.NoError(t, err)

	ti.now = time.Now
	_, err = ti.Verify(tok)
	require.Error(t, err)
	assert.Equal(t, common.ErrTokenExpired, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newIssuer(t, TokenConfig{SecretKey: []byte("right-secret")}).Issue("u2")
	require.NoError(t, err)

	_, err = newIssuer(t, TokenConfig{SecretKey: []byte("wrong-secret")}).Verify(tok)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()

	ti := newIssuer(t, TokenConfig{SecretKey: []byte("k")})
	tok, err := ti.Issue("victim")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	forged, err := json.Marshal(map[string]any{
		"userId": "attacker",
		"exp":    time.Now().Add(100 * 24 * time.Hour).Unix(),
	})
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	_, err = ti.Verify(strings.Join(parts, "."))
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_TamperedSignature(t *testing.T) {
	t.Parallel()

	ti := newIssuer(t, TokenConfig{SecretKey: []byte("k")})
	tok, err := ti.Issue("u")
	require.NoError(t, err)

	// a character well inside the signature carries six data bits
	i := len(tok) - 5
	replacement := "A"
	if tok[i] == 'A' {
		replacement = "B"
	}
	_, err = ti.Verify(tok[:i] + replacement + tok[i+1:])
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	hs256 := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := hs256.SignedString(secret)
	require.NoError(t, err)

	_, err = newIssuer(t, TokenConfig{SecretKey: secret}).Verify(tok)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_RequiresExpiration(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u"}).SignedString(secret)
	require.NoError(t, err)

	_, err = newIssuer(t, TokenConfig{SecretKey: secret}).Verify(tok)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_IssuerAudienceSymmetric(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	strict := newIssuer(t, TokenConfig{SecretKey: secret, Issuer: "seniko", Audience: "seniko-web"})

	tok, err := strict.Issue("u-9")
	require.NoError(t, err)

	payload := decodePayload(t, tok)
	assert.Equal(t, "seniko", payload["iss"])

	got, err := strict.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-9", got)

	plainTok, err := newIssuer(t, TokenConfig{SecretKey: secret}).Issue("u-9")
	require.NoError(t, err)
	_, err = strict.Verify(plainTok)
	assert.True(t, errors.Is(err, common.ErrInvalidToken), "token without iss/aud must be rejected")

	otherAud, err := newIssuer(t, TokenConfig{SecretKey: secret, Issuer: "seniko", Audience: "mobile"}).Issue("u-9")
	require.NoError(t, err)
	_, err = strict.Verify(otherAud)
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}

func TestVerify_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := newIssuer(t, TokenConfig{SecretKey: []byte("k")}).Verify("not.a.jwt")
	assert.True(t, errors.Is(err, common.ErrInvalidToken))
}
