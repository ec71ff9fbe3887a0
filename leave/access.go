package leave

import "strings"

// Actor is the authenticated caller of a service operation. The transport
// layer builds it from the session; the service decides what it may do.
type Actor struct {
	UserID string
	Role   Role
}

// System is used for seeding and maintenance; it passes every check.
var System = Actor{UserID: "system", Role: RoleAdmin}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func requireActor(a Actor) error {
	if strings.TrimSpace(a.UserID) == "" || !a.Role.Valid() {
		return ErrForbidden
	}
	return nil
}

func requireAdmin(a Actor) error {
	if err := requireActor(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// requireSelfOrAdmin lets members act on their own records only.
func requireSelfOrAdmin(a Actor, userID string) error {
	if err := requireActor(a); err != nil {
		return err
	}
	if a.IsAdmin() || a.UserID == userID {
		return nil
	}
	return ErrForbidden
}

// requireProjectAccess admits admins and members of p.
func requireProjectAccess(a Actor, p *Project) error {
	if err := requireActor(a); err != nil {
		return err
	}
	if a.IsAdmin() || p.HasMember(a.UserID) {
		return nil
	}
	return ErrForbidden
}
