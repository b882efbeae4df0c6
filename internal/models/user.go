package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password,omitempty"` // bcrypt hash, stripped before responses
	First         string `json:"first"`
	Last          string `json:"last"`
	StreetAddress string `json:"street_address"`
	Role          string `json:"role"` // "user" or "admin"
}

// Sanitized returns a copy safe to send back to clients.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
