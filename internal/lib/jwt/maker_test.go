package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 30 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name  string
		email string
	}{
		{
			name:  "plain email",
			email: "user@example.com",
		},
		{
			name:  "email with plus",
			email: "user+tag@example.com",
		},
		{
			name:  "email with subdomain",
			email: "user@mail.example.co.uk",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.email)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			subject, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.email, subject)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 30 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	validToken, err := maker.GenerateToken("user@example.com")
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "empty token",
			token:   "",
			wantErr: ErrTokenMalformed,
		},
		{
			name:    "garbage token",
			token:   "invalid.token.here",
			wantErr: ErrTokenMalformed,
		},
		{
			name:    "expired token",
			token:   createExpiredToken(t, secretKey),
			wantErr: ErrTokenExpired,
		},
		{
			name:    "wrong secret key",
			token:   createTokenWithWrongSecret(t),
			wantErr: ErrInvalidSignature,
		},
		{
			name:    "tampered token",
			token:   validToken + "tampered",
			wantErr: ErrInvalidSignature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := maker.ParseToken(tt.token)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr),
				"want %v, got %v", tt.wantErr, err)
			assert.Empty(t, subject)
		})
	}
}

func TestJWTMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewJWTMaker("first_secret_key", 30*time.Minute)
	maker2 := NewJWTMaker("different_secret_key", 30*time.Minute)

	token, err := maker1.GenerateToken("user@example.com")
	require.NoError(t, err)

	subject, err := maker2.ParseToken(token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSignature))
	assert.Empty(t, subject)

	subject, err = maker1.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", subject)
}

func createExpiredToken(t *testing.T, secretKey string) string {
	maker := NewJWTMaker(secretKey, -time.Hour)
	token, err := maker.GenerateToken("user@example.com")
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	wrongMaker := NewJWTMaker("wrong_secret_key", 30*time.Minute)
	token, err := wrongMaker.GenerateToken("user@example.com")
	require.NoError(t, err)
	return token
}

func TestJWTMaker_TokenExpiration(t *testing.T) {
	secretKey := "test_secret_key"
	shortTTL := 100 * time.Millisecond
	maker := NewJWTMaker(secretKey, shortTTL)

	token, err := maker.GenerateToken("user@example.com")
	require.NoError(t, err)

	subject, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", subject)

	time.Sleep(150 * time.Millisecond)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}
