package model

// Claims is the session identity carried in the JWT and attached to the
// request context by the auth middleware.
type Claims struct {
	UserID string
	Role   Role
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
