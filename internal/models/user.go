package models

import "encoding/json"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) Valid() bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// Label is the role name shown in the sidebar.
func (r UserRole) Label() string {
	if r == UserRoleAdmin {
		return "Admin"
	}
	return "User"
}

// UserRecord is the signed-in user as held by the session and persisted under
// the "user" storage key. Field order is the serialized order.
type UserRecord struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// UserPatch carries a shallow update for the session user. Nil fields are kept.
type UserPatch struct {
	Name  *string
	Email *string
	Role  *UserRole
}

// Apply returns a copy of u with the non-nil patch fields written over it.
func (p UserPatch) Apply(u UserRecord) UserRecord {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	return u
}

// Account is a user as returned by the management API list and profile
// endpoints.
type Account struct {
	ID           string   `json:"_id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Role         UserRole `json:"role"`
	Phone        string   `json:"phone,omitempty"`
	Country      string   `json:"country,omitempty"`
	State        string   `json:"state,omitempty"`
	City         string   `json:"city,omitempty"`
	Organization string   `json:"organization,omitempty"`
}

// UnmarshalJSON accepts both "_id" and "id" for the identifier.
func (a *Account) UnmarshalJSON(data []byte) error {
	type account Account
	var raw struct {
		account
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Account(raw.account)
	if a.ID == "" {
		a.ID = raw.AltID
	}
	return nil
}

func (a Account) Record() UserRecord {
	return UserRecord{
		ID:    a.ID,
		Name:  a.Name,
		Email: a.Email,
		Role:  a.Role,
	}
}
