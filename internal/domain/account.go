package domain

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is a registered login. Requests never load it: its ID and Role travel
// in the bearer token as a Principal.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

type Customer struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

type Account struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	IBAN       string    `json:"iban"`
	CreatedAt  time.Time `json:"created_at"`
}

// Principal is the authenticated user acting on a request.
type Principal struct {
	UserID string
	Role   UserRole
}

// Principal is the identity a token issued for u carries.
func (u User) Principal() Principal {
	return Principal{UserID: u.ID, Role: u.Role}
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
