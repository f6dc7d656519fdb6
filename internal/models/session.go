package models

// Session is the client's view of who is logged in. IsAuthenticated holds
// exactly when Token is set and User is non-nil.
type Session struct {
	IsAuthenticated bool
	Token           string
	User            *UserRecord
}

func (s Session) Role() UserRole {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func (s Session) IsAdmin() bool {
	return s.Role() == UserRoleAdmin
}
