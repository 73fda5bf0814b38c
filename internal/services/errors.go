package services

import "errors"

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownDepartment  = errors.New("unknown department")
	ErrComplaintNotFound  = errors.New("complaint not found")
	ErrForbidden          = errors.New("not allowed to act on this complaint")
	ErrNotDeletable       = errors.New("only pending or in-progress complaints can be deleted")
)
