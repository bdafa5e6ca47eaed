package domain

// Action is a closed set of operations a principal can attempt within a
// tenant. Authorization decisions go through the explicit table below,
// never ad hoc string comparisons.
type Action string

const (
	ActionManageStaff        Action = "manage-staff"
	ActionEditSettings       Action = "edit-settings"
	ActionManageCatalog      Action = "manage-catalog"
	ActionReadCatalog        Action = "read-catalog"
	ActionCreateSale         Action = "create-sale"
	ActionRecordPayment      Action = "record-payment"
	ActionReadReports        Action = "read-reports"
	ActionMarkAttendance     Action = "mark-attendance"
	ActionReadStudents       Action = "read-students"
	ActionManageReservations Action = "manage-reservations"
	ActionManageUnits        Action = "manage-units"
	ActionViewDashboard      Action = "view-dashboard"
)

// AllActions lists every defined action, in declaration order.
var AllActions = []Action{
	ActionManageStaff,
	ActionEditSettings,
	ActionManageCatalog,
	ActionReadCatalog,
	ActionCreateSale,
	ActionRecordPayment,
	ActionReadReports,
	ActionMarkAttendance,
	ActionReadStudents,
	ActionManageReservations,
	ActionManageUnits,
	ActionViewDashboard,
}

// rolePermissions is the role -> permitted-action matrix for non-owner,
// non-manager roles. Owner and manager are permitted every action and are
// handled in RoleCan directly.
var rolePermissions = map[Role]map[Action]bool{
	RoleCashier: {
		ActionCreateSale:  true,
		ActionReadCatalog: true,
	},
	RoleAccountant: {
		ActionRecordPayment: true,
		ActionReadReports:   true,
	},
	RoleTeacher: {
		ActionMarkAttendance: true,
		ActionRecordPayment:  true,
		ActionReadStudents:   true,
	},
	RoleFrontDesk: {
		ActionManageReservations: true,
		ActionManageUnits:        true,
	},
	RoleHousekeeper: {
		ActionManageReservations: true,
		ActionManageUnits:        true,
	},
}

// RoleCan reports whether a role is permitted an action within its tenant.
func RoleCan(role Role, action Action) bool {
	if role == RoleOwner || role == RoleManager {
		return true
	}
	if action == ActionViewDashboard {
		// Every active member may read the dashboard.
		return true
	}
	return rolePermissions[role][action]
}
