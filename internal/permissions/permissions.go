package permissions

// Роли — закрытое перечисление. Строка из БД превращается в Role
// только через ParseRole, дальше по коду "сырые" строки не ходят.
type Role string

const (
	RoleMaster  Role = "master"
	RoleManager Role = "manager"
	RoleViewer  Role = "viewer"
)

type Capability string

const (
	CapViewDashboard   Capability = "view_dashboard"
	CapManageDonations Capability = "manage_donations"
	CapManageAdmins    Capability = "manage_admins"
	CapSystemSettings  Capability = "system_settings"
)

// roleCapabilities — фиксированная таблица role → набор capability.
// master здесь не перечислен: ему разрешено всё безусловно (см. Allowed).
var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleManager: {
		CapViewDashboard:   {},
		CapManageDonations: {},
	},
	RoleViewer: {
		CapViewDashboard: {},
	},
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleMaster, RoleManager, RoleViewer:
		return Role(s), true
	}
	return "", false
}

// Allowed — чистый предикат без побочных эффектов.
// Неизвестная роль (в т.ч. пустая, то есть неаутентифицированный
// вызов) всегда получает отказ.
func Allowed(role Role, cap Capability) bool {
	if role == RoleMaster {
		return true
	}
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, found := caps[cap]
	return found
}
