package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelOfIsStrictlyIncreasing(t *testing.T) {
	roles := Roles()
	for i := 1; i < len(roles); i++ {
		assert.Less(t, LevelOf(roles[i-1]), LevelOf(roles[i]))
	}
	assert.Equal(t, 0, LevelOf(RoleStaff))
	assert.Equal(t, 3, LevelOf(RoleSuperAdmin))
	assert.Less(t, LevelOf(Role("Super Admin")), LevelOf(RoleStaff))
}

func TestCanAssignTaskTo(t *testing.T) {
	for _, r := range Roles() {
		assert.True(t, CanAssignTaskTo(r, r), "reflexive for %s", r)
	}

	tests := []struct {
		assigner, target Role
		want             bool
	}{
		{RoleStaff, RoleAdmin, false},
		{RoleAdmin, RoleStaff, true},
		{RoleManager, RoleStaff, true},
		{RoleStaff, RoleManager, false},
		{RoleSuperAdmin, RoleAdmin, true},
		{Role("ghost"), RoleStaff, false},
		{RoleStaff, Role("ghost"), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanAssignTaskTo(tt.assigner, tt.target), "%s -> %s", tt.assigner, tt.target)
	}
}

func TestCanManageUser(t *testing.T) {
	assert.False(t, CanManageUser(RoleAdmin, RoleAdmin))
	assert.False(t, CanManageUser(RoleAdmin, RoleSuperAdmin))
	assert.True(t, CanManageUser(RoleAdmin, RoleManager))
	assert.True(t, CanManageUser(RoleAdmin, RoleStaff))
	assert.False(t, CanManageUser(RoleManager, RoleStaff))
	assert.False(t, CanManageUser(RoleStaff, RoleStaff))
	assert.False(t, CanManageUser(RoleAdmin, Role("ghost")))
	assert.False(t, CanManageUser(Role("ghost"), RoleStaff))

	for _, r := range append(Roles(), Role("ghost")) {
		assert.True(t, CanManageUser(RoleSuperAdmin, r))
	}
}

func TestParseRoleAndLabel(t *testing.T) {
	role, ok := ParseRole(" manager ")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, role)

	_, ok = ParseRole("Manager")
	assert.False(t, ok)

	assert.Equal(t, "Super Admin", RoleSuperAdmin.Label())
	assert.Equal(t, "Staff", RoleStaff.Label())
}
