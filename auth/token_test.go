package auth

import (
	"encoding/base64"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photolabel/config"
)

var testAuth = config.Auth{SecretKey: "s3cret", TokenTTL: 30 * time.Minute}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokens_IssueAndSubject(t *testing.T) {
	tokens := NewTokens(testAuth)
	token, err := tokens.Issue("alice")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	subject, err := tokens.Subject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestTokens_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token, err := NewTokens(testAuth).WithClock(fixedClock(issuedAt)).Issue("alice")
	require.NoError(t, err)

	expiry := issuedAt.Add(testAuth.TokenTTL)
	tests := []struct {
		name    string
		now     time.Time
		wantErr error
	}{
		{"just issued", issuedAt, nil},
		{"one second before expiry", expiry.Add(-time.Second), nil},
		{"at expiry", expiry, ErrTokenExpired},
		{"after expiry", expiry.Add(time.Hour), ErrTokenExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := NewTokens(testAuth).WithClock(fixedClock(tt.now)).Subject(token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "alice", subject)
		})
	}
}

func TestTokens_Rejects(t *testing.T) {
	tokens := NewTokens(testAuth)
	good, err := tokens.Issue("alice")
	require.NoError(t, err)
	parts := strings.Split(good, ".")

	exp := strconv.FormatInt(time.Now().Add(time.Hour).Unix(), 10)
	forgedPayload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"mallory","exp":` + exp + `}`))

	otherSecret, err := NewTokens(config.Auth{SecretKey: "other", TokenTTL: time.Hour}).Issue("alice")
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).
		SignedString([]byte(testAuth.SecretKey))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testAuth.SecretKey))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered payload", parts[0] + "." + forgedPayload + "." + parts[2]},
		{"tampered signature", parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))},
		{"wrong secret", otherSecret},
		{"alg none", none},
		{"no expiry", noExpiry},
		{"no subject", noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Subject(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("not a hash", "hunter2"))
}
