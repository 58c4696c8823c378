// Package models holds the plain data types passed between the friendbook
// repositories, services and transport.
package models

// User is one row of the users table.
//
// Password carries the bcrypt hash only while inside the service layer;
// every User handed to a caller has it cleared.
type User struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password,omitempty" validate:"required"`
	Role       string `json:"role" validate:"omitempty,oneof=user admin"`
	SecretCode string `json:"secretCode" validate:"required"`
}

// Profile is the editable part of a User.
type Profile struct {
	FirstName  string `json:"firstName" validate:"required"`
	LastName   string `json:"lastName" validate:"required"`
	SecretCode string `json:"secretCode" validate:"required"`
}

