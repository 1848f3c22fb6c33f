package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAuthor          Role = "AUTHOR"
	RoleReviewer        Role = "REVIEWER"
	RoleEditor          Role = "EDITOR"
	RoleManagingEditor  Role = "MANAGING_EDITOR"
	RoleEditorInChief   Role = "EDITOR_IN_CHIEF"
	RoleSecurityAuditor Role = "SECURITY_AUDITOR"
	RoleAdmin           Role = "ADMIN"
)

// editorialRank orders the editorial ladder. Roles outside the ladder rank 0.
var editorialRank = map[Role]int{
	RoleEditor:         1,
	RoleManagingEditor: 2,
	RoleEditorInChief:  3,
	RoleAdmin:          4,
}

// ValidRoles is the canonical set of accepted role strings.
var ValidRoles = map[Role]bool{
	RoleAuthor: true, RoleReviewer: true, RoleEditor: true, RoleManagingEditor: true,
	RoleEditorInChief: true, RoleSecurityAuditor: true, RoleAdmin: true,
}

// AtLeast reports whether r sits at or above floor on the editorial ladder.
// Roles outside the ladder only satisfy themselves.
func (r Role) AtLeast(floor Role) bool {
	need, ok := editorialRank[floor]
	if !ok {
		return r == floor
	}
	rank, ok := editorialRank[r]
	if !ok {
		return false
	}
	return rank >= need
}

type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.Name == "" {
		return fmt.Errorf("user name is required")
	}
	if !ValidRoles[u.Role] {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	return nil
}

// Actor is the identity a workflow operation is invoked on behalf of.
type Actor struct {
	ID   string
	Role Role
}

func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
