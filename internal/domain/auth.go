package domain

// Actor is the authenticated caller as seen by authorization checks.
type Actor struct {
	ID   string
	Role Role
}
