package enums

import "testing"

func TestParseRole(t *testing.T) {
	role, err := ParseRole("super_admin")
	if err != nil {
		t.Fatalf("parse role: %v", err)
	}
	if role != RoleSuperAdmin {
		t.Fatalf("expected super_admin got %s", role)
	}

	if _, err := ParseRole("root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestCanAdministerPlatform(t *testing.T) {
	if !RoleSuperAdmin.CanAdministerPlatform() {
		t.Fatal("super_admin must administer the platform")
	}
	if RoleMerchant.CanAdministerPlatform() {
		t.Fatal("merchant must not administer the platform")
	}
	if Role("admin").CanAdministerPlatform() {
		t.Fatal("unknown role must not administer the platform")
	}
}

func TestRoleIsValid(t *testing.T) {
	if Role("agent").IsValid() {
		t.Fatal("agent is not a known role")
	}
	if !RoleMerchant.IsValid() {
		t.Fatal("merchant should be valid")
	}
}
