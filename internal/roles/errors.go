package roles

import "errors"

var (
	ErrNotGranted         = errors.New("Role is not granted to this user")
	ErrInvariantViolation = errors.New("Cannot revoke the last active role")
	ErrInvalidRole        = errors.New("Invalid role")
	ErrUserNotFound       = errors.New("User not found")
	ErrForbidden          = errors.New("User is Forbidden from performing this action")
	ErrUnauthenticated    = errors.New("Not authenticated")
)
