package auth

import "github.com/washboardhq/washboard/pkg/models"

// Session carries the authenticated user for the lifetime of a dashboard
// run. It is built once at the composition root and passed explicitly to
// the components that need it; nothing reads it from ambient scope.
type Session struct {
	user          models.User
	authenticated bool
}

// NewSession creates an authenticated session for user.
func NewSession(user models.User) *Session {
	return &Session{user: user, authenticated: true}
}

// Anonymous returns an unauthenticated session.
func Anonymous() *Session {
	return &Session{}
}

// User returns the current user and whether the session is authenticated.
func (s *Session) User() (models.User, bool) {
	return s.user, s.authenticated
}

// IsAdmin reports whether the session user holds the admin role.
func (s *Session) IsAdmin() bool {
	return s.authenticated && s.user.Role == models.RoleAdmin
}
