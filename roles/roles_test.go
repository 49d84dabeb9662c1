package roles

import "testing"

func TestAdminHasAllPermissions(t *testing.T) {
	all := []string{
		PermViewTours, PermBookTours, PermManageTours,
		PermManageBookings, PermManageUsers, PermAccessAdmin,
	}
	for _, p := range all {
		if !HasPermission(RoleAdmin, p) {
			t.Errorf("admin missing %q", p)
		}
	}
}

func TestGuestNeverManages(t *testing.T) {
	for _, p := range []string{PermManageTours, PermManageBookings, PermManageUsers, PermAccessAdmin, PermBookTours} {
		if HasPermission(RoleGuest, p) {
			t.Errorf("guest should not have %q", p)
		}
	}
	if !HasPermission(RoleGuest, PermViewTours) {
		t.Error("guest should be able to view tours")
	}
}

func TestUserCanBookButNotManage(t *testing.T) {
	if !HasPermission(RoleUser, PermViewTours) || !HasPermission(RoleUser, PermBookTours) {
		t.Error("user should view and book tours")
	}
	for _, p := range []string{PermManageTours, PermManageBookings, PermManageUsers, PermAccessAdmin} {
		if HasPermission(RoleUser, p) {
			t.Errorf("user should not have %q", p)
		}
	}
}

func TestUnknownRoleDefaultsToUser(t *testing.T) {
	if !HasPermission("moderator", PermBookTours) {
		t.Error("unknown role should fall back to user permissions")
	}
	if HasPermission("moderator", PermManageTours) {
		t.Error("unknown role must not gain manage permissions")
	}
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := Permissions(RoleGuest)
	if len(perms) != 1 || perms[0] != PermViewTours {
		t.Fatalf("unexpected guest permissions: %v", perms)
	}
	perms[0] = PermManageUsers
	if HasPermission(RoleGuest, PermManageUsers) {
		t.Error("mutating the returned slice must not affect the table")
	}
}
