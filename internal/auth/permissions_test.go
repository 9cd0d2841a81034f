package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/trailer-admin/internal/domain"
)

func TestHasPermission(t *testing.T) {
	table := DefaultPermissionTable()

	tests := []struct {
		role     domain.Role
		resource Resource
		action   Action
		want     bool
	}{
		{domain.RoleSuperAdmin, Resource("anything"), Action("anyaction"), true},
		{domain.RoleStaff, ResourceTrailers, ActionDelete, false},
		{domain.RoleStaff, ResourceTrailers, ActionRead, true},
		{domain.RoleStaff, ResourceTasks, ActionUpdate, true},
		{domain.RoleStaff, ResourceTasks, ActionCreate, false},
		{domain.RoleManager, ResourceTasks, ActionAssign, true},
		{domain.RoleManager, ResourceUsers, ActionApprove, false},
		{domain.RoleManager, ResourceInsurance, ActionReject, true},
		{domain.RoleManager, ResourceInsurance, ActionDelete, false},
		{domain.RoleAdmin, ResourceUsers, ActionApprove, true},
		{domain.RoleAdmin, ResourceUsers, ActionDelete, false},
		{domain.RoleAdmin, ResourceReports, ActionExport, true},
		{domain.RoleAdmin, Resource("sales"), ActionRead, false},
		{domain.Role("ghost"), ResourceTasks, ActionRead, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, table.HasPermission(tt.role, tt.resource, tt.action),
			"%s %s %s", tt.role, tt.action, tt.resource)
	}
}

func TestWildcardIgnoresTableContents(t *testing.T) {
	table := NewPermissionTable(map[domain.Role]PermissionSet{
		domain.RoleSuperAdmin: Wildcard(),
		domain.RoleStaff:      Explicit(nil),
	})

	assert.True(t, table.HasPermission(domain.RoleSuperAdmin, ResourceUsers, ActionDelete))
	assert.False(t, table.HasPermission(domain.RoleStaff, ResourceTasks, ActionRead))
	assert.False(t, table.HasPermission(domain.RoleAdmin, ResourceTasks, ActionRead))
}

func TestExplicitCopiesInput(t *testing.T) {
	grants := map[Resource][]Action{ResourceTasks: {ActionRead}}
	set := Explicit(grants)
	grants[ResourceTasks] = append(grants[ResourceTasks], ActionDelete)

	table := NewPermissionTable(map[domain.Role]PermissionSet{domain.RoleStaff: set})
	assert.False(t, table.HasPermission(domain.RoleStaff, ResourceTasks, ActionDelete))

	var nilTable *PermissionTable
	assert.False(t, nilTable.HasPermission(domain.RoleSuperAdmin, ResourceTasks, ActionRead))
}
