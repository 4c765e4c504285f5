package models

// Role is the coarse permission level attached to a user account.
type Role = string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ValidRole reports whether s is one of the known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// User is an account record. PasswordHash never leaves the process:
// it is excluded from every JSON response.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Todo is a task owned by exactly one user. OwnerID is set server-side
// at creation time and never changes afterwards.
type Todo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
	OwnerID     int    `json:"owner_id"`
}

// TodoPatch carries a partial update. Nil fields are left unchanged.
type TodoPatch struct {
	Title       *string
	Description *string
	Priority    *int
	Complete    *bool
}
