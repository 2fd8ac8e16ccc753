package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"customer", "farmer", "admin", "guest"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(role))
	}

	_, err := ParseRole("superuser")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestCanRegister(t *testing.T) {
	assert.True(t, RoleCustomer.CanRegister())
	assert.True(t, RoleFarmer.CanRegister())
	assert.False(t, RoleAdmin.CanRegister())
	assert.False(t, RoleGuest.CanRegister())
}
