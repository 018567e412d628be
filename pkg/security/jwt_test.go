package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	viper.Set("jwt.secret", "test-secret")
}

func TestAuthTokenRoundTrip(t *testing.T) {
	token, err := MakeAuthToken("someUserID")
	require.NoError(t, err)

	userID, err := ParseAuthToken(token)
	require.NoError(t, err)
	assert.Equal(t, "someUserID", userID)
}

func TestAuthTokenExpired(t *testing.T) {
	// Valid signature, expiry in the past
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "someUserID",
		"iat":     time.Now().Add(-2 * time.Hour).Unix(),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte(viper.GetString("jwt.secret")))
	require.NoError(t, err)

	_, err = ParseAuthToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthTokenWrongSecret(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "someUserID",
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	token, err := raw.SignedString([]byte("a-different-secret"))
	require.NoError(t, err)

	_, err = ParseAuthToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestAuthTokenGarbage(t *testing.T) {
	_, err := ParseAuthToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestResetTokenShape(t *testing.T) {
	tok, err := MakeResetToken("someUserID")
	require.NoError(t, err)

	// 32 random bytes hex encoded
	assert.Len(t, tok.Token, 64)
	assert.Equal(t, "someUserID", tok.UserID)
	assert.False(t, tok.Used)
	assert.WithinDuration(t, time.Now().Add(ResetTokenTTL), tok.ExpiresAt, time.Minute)

	tok2, err := MakeResetToken("someUserID")
	require.NoError(t, err)
	assert.NotEqual(t, tok.Token, tok2.Token)
}

func TestResetTokenNeedsUserID(t *testing.T) {
	_, err := MakeResetToken("")
	assert.Error(t, err)
}
