// Package common contains shared constants, sentinel errors and small helpers
// used by both the friendbook server and its CLI client.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// PasswordUpdatedMessage is returned to callers after a successful password change.
const PasswordUpdatedMessage = "Your password has been updated"

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserServiceName is the fully qualified gRPC service name shared by the
// server registration and the client stubs.
const UserServiceName = "friendbook.v1.UserService"

// RequestIDHeaderName is the gRPC metadata key carrying the request id.
const RequestIDHeaderName = "x-request-id"

// FullMethodName returns the gRPC path of method on UserServiceName.
func FullMethodName(method string) string {
	return "/" + UserServiceName + "/" + method
}
