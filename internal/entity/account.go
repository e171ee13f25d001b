package entity

import "github.com/google/uuid"

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"fullName"`
	Phone    string    `json:"phone"`
	Address  string    `json:"address"`
	IsDealer bool      `json:"isDealer"`
}

type Restaurant struct {
	ID      uuid.UUID `json:"id"`
	UserID  uuid.UUID `json:"userId"`
	Name    string    `json:"name"`
	Address string    `json:"address"`
}

type Role string

const (
	RoleUser   Role = "user"
	RoleDealer Role = "dealer"
	RoleAdmin  Role = "admin"
)

// Subject is the caller of an API request as asserted by the upstream
// API gateway.
type Subject struct {
	UserID uuid.UUID
	Role   Role
}

func (s Subject) IsAdmin() bool {
	return s.Role == RoleAdmin
}
