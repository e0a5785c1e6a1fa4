package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManagerRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", 1)

	token, err := m.Generate("3201010101010001", "jane")
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "3201010101010001", claims.IDNumber)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, "storefront", claims.Issuer)
}

func TestTokenManagerRejects(t *testing.T) {
	m := NewTokenManager("test-secret", 1)
	token, err := m.Generate("3201010101010001", "jane")
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", 1).Validate(token)
	assert.Error(t, err)

	expired, err := NewTokenManager("test-secret", -1).Generate("3201010101010001", "jane")
	require.NoError(t, err)
	_, err = m.Validate(expired)
	assert.Error(t, err)

	_, err = m.Validate("not-a-token")
	assert.Error(t, err)
}
