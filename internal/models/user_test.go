package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleMember))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("owner"))
	assert.False(t, IsValidRole(""))
}

func TestHasAtLeast(t *testing.T) {
	assert.True(t, HasAtLeast(RoleAdmin, RoleMember))
	assert.True(t, HasAtLeast(RoleAdmin, RoleAdmin))
	assert.True(t, HasAtLeast(RoleMember, RoleMember))
	assert.False(t, HasAtLeast(RoleMember, RoleAdmin))
	assert.False(t, HasAtLeast("", RoleMember))
}
