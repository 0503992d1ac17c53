package service

import "github.com/parasjain182005/Travel-Website/internal/domain"

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the actor has the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

// CanModerate reports whether the actor may act on other users' content.
func (a Actor) CanModerate() bool {
	return a.Role == domain.RoleAdmin || a.Role == domain.RoleModerator
}

// Owns reports whether userID belongs to the actor.
func (a Actor) Owns(userID string) bool {
	return a.UserID != "" && a.UserID == userID
}
