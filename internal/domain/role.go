package domain

// Role is the effective permission level of a user on a board. It is a closed
// set: anything outside the three constants normalizes to viewer.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Action is a capability required by an operation.
type Action string

const (
	// ActionView covers reads: board detail, activity feed, realtime subscription.
	ActionView Action = "view"
	// ActionEdit covers every ordinary mutation: lists, cards, labels, reorders.
	ActionEdit Action = "edit"
	// ActionOwn covers owner-only operations: board delete, label delete, invites.
	ActionOwn Action = "own"
)

// Can reports whether the role grants the action. Capabilities are strictly
// nested: owner covers editor, editor covers viewer.
func (r Role) Can(a Action) bool {
	switch r {
	case RoleOwner:
		return true
	case RoleEditor:
		return a == ActionView || a == ActionEdit
	case RoleViewer:
		return a == ActionView
	default:
		return false
	}
}

// NormalizeRole maps an arbitrary string to a known Role, defaulting to viewer.
func NormalizeRole(s string) Role {
	switch Role(s) {
	case RoleOwner, RoleEditor, RoleViewer:
		return Role(s)
	default:
		return RoleViewer
	}
}
