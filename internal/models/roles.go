package models

// Role is the staff role reported with the session.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleOwner       Role = "OWNER"
	RoleManager     Role = "MANAGER"
	RoleFrontDesk   Role = "FRONT_DESK"
	RoleHousekeeper Role = "HOUSEKEEPER"
)

// Viewer identifies the staff member a terminal is signed in as.
type Viewer struct {
	StaffID      int64 `json:"staff_id"`
	Role         Role  `json:"role"`
	IsSuperAdmin bool  `json:"is_super_admin"`
}

// IsAdmin reports whether the viewer gets admin-level views. OWNER counts as
// admin here, as does the super-admin flag; this mirrors the backend's checks.
func (v Viewer) IsAdmin() bool {
	return v.IsSuperAdmin || v.Role == RoleAdmin || v.Role == RoleOwner
}

// CanVerifyTasks reports whether the viewer may verify completed housekeeping
// work. Housekeepers start and complete; verification needs a supervisor.
func (v Viewer) CanVerifyTasks() bool {
	return v.IsAdmin() || v.Role == RoleManager
}
