package roles

import (
	"context"
	"log"
	"time"

	"voyago/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
	RoleGuest = "guest"
)

// Permissions
const (
	PermViewTours      = "view_tours"
	PermBookTours      = "book_tours"
	PermManageTours    = "manage_tours"
	PermManageBookings = "manage_bookings"
	PermManageUsers    = "manage_users"
	PermAccessAdmin    = "access_admin"
)

// rolePermissions is the static permission table. Unknown roles are
// treated as RoleUser by HasPermission.
var rolePermissions = map[string][]string{
	RoleAdmin: {
		PermViewTours,
		PermBookTours,
		PermManageTours,
		PermManageBookings,
		PermManageUsers,
		PermAccessAdmin,
	},
	RoleUser: {
		PermViewTours,
		PermBookTours,
	},
	RoleGuest: {
		PermViewTours,
	},
}

func HasPermission(role, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		perms = rolePermissions[RoleUser]
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the role's permission set.
func Permissions(role string) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		perms = rolePermissions[RoleUser]
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

func IsValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// Resolve looks up the user's role document. A missing user or missing
// role field falls back to RoleUser; an empty userID is RoleGuest. The
// lookup failure is logged but never surfaced, the caller always gets a
// usable role.
func Resolve(ctx context.Context, userID string) string {
	if userID == "" {
		return RoleGuest
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var doc struct {
		Role string `bson:"role"`
	}
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID},
		options.FindOne().SetProjection(bson.M{"role": 1})).Decode(&doc)
	if err != nil {
		log.Printf("role lookup failed for %s: %v", userID, err)
		return RoleUser
	}
	if !IsValidRole(doc.Role) {
		return RoleUser
	}
	return doc.Role
}
