package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewManager("test-secret", 60)

	token, err := m.GenerateToken("user-123", "admin@adoptioncenter.dev", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "admin@adoptioncenter.dev", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", 60).GenerateToken("user-123", "a@b.c", "user")
	require.NoError(t, err)

	_, err = NewManager("secret-b", 60).ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := NewManager("test-secret", 60).ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestExpiry(t *testing.T) {
	assert.Equal(t, 90*time.Minute, NewManager("s", 90).Expiry())
}
