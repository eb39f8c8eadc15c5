package rbac

// Role names. Keep these stable; they are part of the token contract with
// the identity service.
const (
	RoleStudent = "student"
	RoleTutor   = "tutor"
	RoleAdmin   = "admin"
)

func IsAdmin(role string) bool { return role == RoleAdmin }
