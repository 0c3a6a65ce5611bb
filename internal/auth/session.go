package auth

import "signboard-admin/internal/models"

// Session is the authenticated caller, passed explicitly to the services that
// gate access by owner or role.
type Session struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// CanAccess reports whether the caller may read a record owned by ownerID.
// Admins read everything; everyone else only their own records.
func (s Session) CanAccess(ownerID string) bool {
	return s.IsAdmin() || (s.UserID != "" && s.UserID == ownerID)
}
