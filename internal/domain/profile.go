package domain

import "time"

type Role string

const (
	RoleDonor    Role = "donor"
	RoleReceiver Role = "receiver"
)

// Valid reports whether r is one of the roles a profile can be created with.
func (r Role) Valid() bool {
	return r == RoleDonor || r == RoleReceiver
}

type Profile struct {
	ID            int32     `json:"id"`
	FullName      string    `json:"full_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Role          Role      `json:"role"`
	PasswordHash  string    `json:"-"`
	EmailVerified bool      `json:"email_verified"`
	CreatedOn     time.Time `json:"created_on"`
}

// Contact is the slice of a profile shown to the counterpart of a request.
type Contact struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
