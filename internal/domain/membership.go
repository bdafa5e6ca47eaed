package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleOwner       Role = "owner"
	RoleManager     Role = "manager"
	RoleCashier     Role = "cashier"
	RoleAccountant  Role = "accountant"
	RoleTeacher     Role = "teacher"
	RoleFrontDesk   Role = "front_desk"
	RoleHousekeeper Role = "housekeeper"
)

func ValidRole(s string) bool {
	switch Role(s) {
	case RoleOwner, RoleManager, RoleCashier, RoleAccountant,
		RoleTeacher, RoleFrontDesk, RoleHousekeeper:
		return true
	}
	return false
}

// Membership grants a principal a role within a tenant. Memberships are
// deactivated on removal, never deleted, and reactivated on re-invite.
type Membership struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	PrincipalID uuid.UUID  `json:"principal_id"`
	Role        Role       `json:"role"`
	Active      bool       `json:"active"`
	InvitedBy   *uuid.UUID `json:"invited_by,omitempty"`
	InvitedAt   time.Time  `json:"invited_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
