package auth

import "github.com/golang-jwt/jwt/v5"

// Identity is the resolved caller identity every protected handler runs with.
// It comes either from local token claims or from the identity service profile.
type Identity struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Claims are the only supported JWT claims shape for this service.
// The embedded identity must be complete: UserID and Role are required on
// every token; authorization decisions are made server-side from these.
type Claims struct {
	jwt.RegisteredClaims

	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
}

func (c Claims) Identity() Identity {
	return Identity{ID: c.UserID, Role: c.Role, Email: c.Email, Name: c.Name}
}
