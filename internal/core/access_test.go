package core

import "testing"

func TestCanAccess_UnrestrictedClassifications(t *testing.T) {
	roles := []Role{RoleSuperUser, RoleManager, RoleITAR, RoleUser, RoleViewer}
	open := []ITARClassification{ClassificationNone, ClassificationEAR99, ClassificationSensitive}
	for _, r := range roles {
		for _, c := range open {
			if !CanAccess(r, c, false) {
				t.Errorf("CanAccess(%s, %s, false) = false, want true", r, c)
			}
		}
	}
}

func TestCanAccess_ITARColumn(t *testing.T) {
	cases := []struct {
		role     Role
		itarAuth bool
		want     bool
	}{
		{RoleSuperUser, false, true},
		{RoleManager, false, true},
		{RoleITAR, false, true},
		{RoleUser, false, false},
		{RoleUser, true, true},
		{RoleViewer, false, false},
		{RoleViewer, true, true},
	}
	for _, c := range cases {
		if got := CanAccess(c.role, ClassificationITAR, c.itarAuth); got != c.want {
			t.Errorf("CanAccess(%s, ITAR, %v) = %v, want %v", c.role, c.itarAuth, got, c.want)
		}
	}
}

func TestCanAccess_UnknownRoleTreatedAsUser(t *testing.T) {
	if CanAccess(Role("intern"), ClassificationITAR, false) {
		t.Error("unknown role should not reach ITAR material without itar_auth")
	}
	if !CanAccess(Role("intern"), ClassificationITAR, true) {
		t.Error("itar_auth flag should grant ITAR access to unknown roles")
	}
	if !CanAccess(Role("intern"), ClassificationEAR99, false) {
		t.Error("unknown role should still see unrestricted material")
	}
}

func TestCanAccessITAR(t *testing.T) {
	if !CanAccessITAR(RoleManager, false) {
		t.Error("manager should pass without itar_auth")
	}
	if CanAccessITAR(RoleViewer, false) {
		t.Error("viewer without itar_auth should be denied")
	}
	if !CanAccessITAR(RoleViewer, true) {
		t.Error("viewer with itar_auth should pass")
	}
}
