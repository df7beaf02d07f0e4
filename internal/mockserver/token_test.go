package mockserver

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewTokenService(t *testing.T) {
	_, err := NewTokenService("short", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecretKey)
	_, err = NewTokenService(testSecret, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestTokenService(t *testing.T) {
	svc, err := NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	token, err := svc.Generate("sess-1", "admin", time.Now())
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", claims.ID)
	assert.Equal(t, "admin", claims.Username)

	_, err = svc.Validate(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Validate(strings.Repeat("a", 10))
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := svc.Generate("sess-2", "admin", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = svc.Validate(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other, err := NewTokenService(strings.Repeat("z", 32), time.Hour)
	require.NoError(t, err)
	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
