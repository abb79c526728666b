// Package authz provides small helpers for reading the authenticated
// user out of the request context. Route-level role checks live in
// auth.RequireRole; handlers use these to get the caller's identity
// without re-checking the role.
package authz

import (
	"net/http"
	"strings"

	"github.com/ucek-sih/internals-portal/internal/app/system/auth"
)

// UserCtx returns the user's role (lowercased), name, and user id (the
// email identity Team documents reference), plus a found flag. ok=false
// means no authenticated user is present.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", "", false
	}
	return strings.ToLower(user.Role), user.Name, user.ID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsParticipant reports whether the current request's user is an
// ordinary participant.
func IsParticipant(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "participant"
}
