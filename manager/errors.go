package manager

import "errors"

var (
	ErrDuplicateType     = errors.New("backend type already registered")
	ErrUnknownType       = errors.New("backend type not registered")
	ErrDuplicateInstance = errors.New("instance id already in use")
	ErrInstanceNotFound  = errors.New("instance not found")
)
