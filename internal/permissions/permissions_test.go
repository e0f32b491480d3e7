package permissions

import "testing"

func TestAllowed_Master(t *testing.T) {
	// master разрешено всё безусловно
	caps := []Capability{CapViewDashboard, CapManageDonations, CapManageAdmins, CapSystemSettings}
	for _, c := range caps {
		if !Allowed(RoleMaster, c) {
			t.Fatalf("master должен иметь доступ к %s", c)
		}
	}
}

func TestAllowed_Table(t *testing.T) {
	cases := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleManager, CapViewDashboard, true},
		{RoleManager, CapManageDonations, true},
		{RoleManager, CapManageAdmins, false},
		{RoleManager, CapSystemSettings, false},
		{RoleViewer, CapViewDashboard, true},
		{RoleViewer, CapManageDonations, false},
		{RoleViewer, CapManageAdmins, false},
		{RoleViewer, CapSystemSettings, false},
	}

	for _, c := range cases {
		if got := Allowed(c.role, c.cap); got != c.want {
			t.Errorf("Allowed(%s, %s) = %v, ожидалось %v", c.role, c.cap, got, c.want)
		}
	}
}

func TestAllowed_UnknownRole(t *testing.T) {
	// неаутентифицированный (пустая роль) и мусорная роль — всегда отказ
	for _, role := range []Role{"", "superuser", "user"} {
		if Allowed(role, CapViewDashboard) {
			t.Errorf("роль %q не должна иметь доступа", role)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole("manager"); !ok || r != RoleManager {
		t.Fatal("manager должен парситься")
	}
	if _, ok := ParseRole("admin"); ok {
		t.Fatal("неизвестная роль не должна парситься")
	}
}
