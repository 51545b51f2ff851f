package booking

import "errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrPermissionDenied = errors.New("you do not have permission to access this booking")
	ErrIncompleteForm   = errors.New("incomplete booking information")
	ErrSessionNotFound  = errors.New("booking session not found or expired")
	ErrSessionOwnership = errors.New("booking session belongs to another user")
)
