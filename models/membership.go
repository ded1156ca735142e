package models

// Membership roles, in descending privilege.
const (
	RoleOwner = "OWNER"
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Membership binds a user to a business with exactly one role.
// A user holds at most one role per business (unique index), and the row is
// removed when either side is deleted.
type Membership struct {
	ID         uint     `json:"id" gorm:"primaryKey"`
	UserID     uint     `json:"user_id" gorm:"not null;uniqueIndex:idx_memberships_user_business"`
	BusinessID uint     `json:"business_id" gorm:"not null;uniqueIndex:idx_memberships_user_business"`
	Role       string   `json:"role" gorm:"size:8;not null"`
	User       User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Business   Business `json:"business,omitempty" gorm:"foreignKey:BusinessID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name.
func (Membership) TableName() string {
	return "memberships"
}

// RoleRank orders roles by privilege, highest first. Unknown roles rank 0.
func RoleRank(role string) int {
	switch role {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleStaff:
		return 1
	default:
		return 0
	}
}

// AssignableRoles returns the roles a member may grant when adding someone:
// one tier below their own, and never OWNER.
func AssignableRoles(assignerRole string) []string {
	switch assignerRole {
	case RoleOwner:
		return []string{RoleAdmin, RoleStaff}
	case RoleAdmin:
		return []string{RoleStaff}
	default:
		return nil
	}
}

// CanAssign reports whether the assigner may grant the target role.
func CanAssign(assignerRole, targetRole string) bool {
	for _, r := range AssignableRoles(assignerRole) {
		if r == targetRole {
			return true
		}
	}
	return false
}
