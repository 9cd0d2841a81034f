package domain

import "strings"

// Role is the canonical authorization role of an authenticated user.
type Role string

const (
	RoleStaff      Role = "staff"
	RoleManager    Role = "manager"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// roleHierarchy is ordered lowest to highest authority; the index is the level.
var roleHierarchy = [...]Role{RoleStaff, RoleManager, RoleAdmin, RoleSuperAdmin}

// Roles returns every known role from lowest to highest level.
func Roles() []Role {
	out := make([]Role, len(roleHierarchy))
	copy(out, roleHierarchy[:])
	return out
}

// ParseRole accepts the canonical role spelling only.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.TrimSpace(s))
	return role, role.Valid()
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	return LevelOf(r) >= 0
}

// Label is the human readable form stored on staff records ("Super Admin").
// It is display metadata only and never an authorization input.
func (r Role) Label() string {
	parts := strings.Split(string(r), "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// LevelOf returns the hierarchy index of role, or -1 when the role is unknown.
func LevelOf(role Role) int {
	for i, r := range roleHierarchy {
		if r == role {
			return i
		}
	}
	return -1
}

// CanAssignTaskTo reports whether assigner may give work to target: same level or below.
func CanAssignTaskTo(assigner, target Role) bool {
	return LevelOf(assigner) >= LevelOf(target)
}

// CanManageUser reports whether manager may approve or reject target.
func CanManageUser(manager, target Role) bool {
	if manager == RoleSuperAdmin {
		return true
	}
	targetLevel := LevelOf(target)
	if targetLevel < 0 {
		return false
	}
	return manager == RoleAdmin && LevelOf(manager) > targetLevel
}
