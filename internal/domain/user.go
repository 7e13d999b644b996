package domain

import "context"

type ContextKey string

const UserContextKey ContextKey = "user"

// User is the caller identity carried in the access token. Accounts live in the auth backend.
type User struct {
	ID    string `json:"id"` // UUID
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserFromContext returns the user stored by the auth middleware, or nil.
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(UserContextKey).(*User)
	return user
}
