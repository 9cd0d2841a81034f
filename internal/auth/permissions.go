package auth

import "github.com/spec-kit/trailer-admin/internal/domain"

// Resource names a guarded area of the API.
type Resource string

const (
	ResourceUsers        Resource = "users"
	ResourceTasks        Resource = "tasks"
	ResourceTrailers     Resource = "trailers"
	ResourceCustomers    Resource = "customers"
	ResourceTransactions Resource = "transactions"
	ResourceReports      Resource = "reports"
	ResourceStaff        Resource = "staff"
	ResourceInsurance    Resource = "insurance"
	ResourceDocuments    Resource = "documents"
)

// Action is an operation on a resource.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionAssign  Action = "assign"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionExport  Action = "export"
)

// PermissionSet is either a wildcard or an explicit resource to actions map.
type PermissionSet interface {
	allows(resource Resource, action Action) bool
}

type wildcardSet struct{}

func (wildcardSet) allows(Resource, Action) bool { return true }

type explicitSet map[Resource]map[Action]struct{}

func (s explicitSet) allows(resource Resource, action Action) bool {
	actions, ok := s[resource]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// Wildcard grants every action on every resource.
func Wildcard() PermissionSet {
	return wildcardSet{}
}

// Explicit grants exactly the listed actions. The input is copied.
func Explicit(grants map[Resource][]Action) PermissionSet {
	set := make(explicitSet, len(grants))
	for resource, actions := range grants {
		allowed := make(map[Action]struct{}, len(actions))
		for _, a := range actions {
			allowed[a] = struct{}{}
		}
		set[resource] = allowed
	}
	return set
}

// PermissionTable maps each role to its permission set. It is immutable once built.
type PermissionTable struct {
	sets map[domain.Role]PermissionSet
}

// NewPermissionTable builds a table from the given role entries.
func NewPermissionTable(entries map[domain.Role]PermissionSet) *PermissionTable {
	sets := make(map[domain.Role]PermissionSet, len(entries))
	for role, set := range entries {
		sets[role] = set
	}
	return &PermissionTable{sets: sets}
}

// HasPermission fails closed on unknown roles, resources and actions.
func (t *PermissionTable) HasPermission(role domain.Role, resource Resource, action Action) bool {
	if t == nil {
		return false
	}
	set, ok := t.sets[role]
	if !ok || set == nil {
		return false
	}
	return set.allows(resource, action)
}

// DefaultPermissionTable returns the built-in back-office permissions.
func DefaultPermissionTable() *PermissionTable {
	crud := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}
	cru := []Action{ActionCreate, ActionRead, ActionUpdate}

	return NewPermissionTable(map[domain.Role]PermissionSet{
		domain.RoleSuperAdmin: Wildcard(),
		domain.RoleAdmin: Explicit(map[Resource][]Action{
			ResourceUsers:        {ActionRead, ActionApprove, ActionReject},
			ResourceTasks:        {ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionAssign},
			ResourceTrailers:     crud,
			ResourceCustomers:    crud,
			ResourceTransactions: crud,
			ResourceReports:      {ActionRead, ActionExport},
			ResourceStaff:        crud,
			ResourceInsurance:    {ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionApprove, ActionReject},
			ResourceDocuments:    {ActionCreate, ActionRead, ActionDelete},
		}),
		domain.RoleManager: Explicit(map[Resource][]Action{
			ResourceTasks:        {ActionCreate, ActionRead, ActionUpdate, ActionAssign},
			ResourceTrailers:     cru,
			ResourceCustomers:    cru,
			ResourceTransactions: cru,
			ResourceReports:      {ActionRead},
			ResourceStaff:        {ActionRead, ActionUpdate},
			ResourceInsurance:    {ActionCreate, ActionRead, ActionUpdate, ActionApprove, ActionReject},
			ResourceDocuments:    {ActionCreate, ActionRead},
		}),
		domain.RoleStaff: Explicit(map[Resource][]Action{
			ResourceTasks:     {ActionRead, ActionUpdate},
			ResourceTrailers:  {ActionRead},
			ResourceCustomers: {ActionRead},
			ResourceInsurance: {ActionRead},
			ResourceDocuments: {ActionRead},
		}),
	})
}
