package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-testing"

func TestGenerateTokenPair(t *testing.T) {
	tests := []struct {
		name          string
		userID        string
		username      string
		role          string
		accessExpiry  time.Duration
		refreshExpiry time.Duration
	}{
		{
			name:          "Staff token generation",
			userID:        "6f1c1b8e-0000-4000-8000-000000000001",
			username:      "kasir01",
			role:          "staff",
			accessExpiry:  15 * time.Minute,
			refreshExpiry: 7 * 24 * time.Hour,
		},
		{
			name:          "Super admin token generation",
			userID:        "6f1c1b8e-0000-4000-8000-000000000002",
			username:      "superadmin",
			role:          "super_admin",
			accessExpiry:  time.Hour,
			refreshExpiry: 30 * 24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := GenerateTokenPair(tt.userID, tt.username, tt.role, testSecret, tt.accessExpiry, tt.refreshExpiry)

			require.NoError(t, err)
			require.NotNil(t, tokens)
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
			assert.NotEqual(t, tokens.AccessToken, tokens.RefreshToken)
			assert.Equal(t, int64(tt.accessExpiry.Seconds()), tokens.ExpiresIn)
		})
	}
}

func TestValidateToken(t *testing.T) {
	userID := "6f1c1b8e-0000-4000-8000-000000000123"
	username := "manajer"
	role := "admin"

	tokens, err := GenerateTokenPair(userID, username, role, testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		secret    string
		tokenType string
		wantErr   error
	}{
		{
			name:      "Valid access token",
			token:     tokens.AccessToken,
			secret:    testSecret,
			tokenType: TokenTypeAccess,
		},
		{
			name:      "Valid refresh token",
			token:     tokens.RefreshToken,
			secret:    testSecret,
			tokenType: TokenTypeRefresh,
		},
		{
			name:    "Invalid secret",
			token:   tokens.AccessToken,
			secret:  "wrong-secret",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Invalid token format",
			token:   "invalid.token.format",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
		{
			name:    "Empty token",
			token:   "",
			secret:  testSecret,
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, claims)
			assert.Equal(t, userID, claims.UserID)
			assert.Equal(t, username, claims.Username)
			assert.Equal(t, role, claims.Role)
			assert.Equal(t, tt.tokenType, claims.TokenType)
			assert.NotEmpty(t, claims.ID)
		})
	}
}

func TestExpiredToken(t *testing.T) {
	tokens, err := GenerateTokenPair("u-1", "kasir01", "staff", testSecret, time.Nanosecond, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestClaims_RemainingTTL(t *testing.T) {
	tokens, err := GenerateTokenPair("u-1", "kasir01", "staff", testSecret, 10*time.Minute, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, testSecret)
	require.NoError(t, err)

	ttl := claims.RemainingTTL()
	assert.True(t, ttl > 8*time.Minute, "ttl %s", ttl)
	assert.True(t, ttl <= 10*time.Minute, "ttl %s", ttl)
	assert.True(t, claims.IssuedAt.Before(claims.ExpiresAt.Time))

	assert.Equal(t, time.Duration(0), (&Claims{}).RemainingTTL())
}

func TestDifferentSecrets(t *testing.T) {
	tokens, err := GenerateTokenPair("u-1", "kasir01", "staff", "secret1", 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(tokens.AccessToken, "secret2")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
