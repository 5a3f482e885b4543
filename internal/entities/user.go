package entities

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleCustomer UserRole = "customer"
)

// User lives in the "users" collection. Password holds a bcrypt hash.
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}

// Session is the persisted "current session" record in the system collection.
type Session struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

const SessionRecordID = "session"
