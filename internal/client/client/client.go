package client

import "context"

// User is an account as returned by the server. SecretCode is only filled
// for the caller's own account.
type User struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Role       string
	SecretCode string
}

// Registration is the data needed to create an account.
type Registration struct {
	FirstName  string
	LastName   string
	Email      string
	Password   []byte
	SecretCode string
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, r Registration) (*User, error)
	Login(ctx context.Context, email string, password []byte) (*User, error)
	Logout()
	RecoverPassword(ctx context.Context, email, secretCode string, newPassword []byte) (string, error)
	Profile(ctx context.Context) (*User, error)
	UpdateProfile(ctx context.Context, firstName, lastName, secretCode string) (*User, error)
	ChangePassword(ctx context.Context, newPassword []byte) (string, error)
	NonFriends(ctx context.Context) ([]User, error)
	UserExists(ctx context.Context, id int64) (bool, error)
}
