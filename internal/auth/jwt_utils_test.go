package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("42", "Sara", "EMPLOYEE")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "Sara", claims.Name)
	assert.Equal(t, "EMPLOYEE", claims.Role)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	token, err := GenerateToken("42", "Sara", "EMPLOYEE")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not.a.token")
	assert.Error(t, err)
}
