package core

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrDuplicateEmail = errors.New("duplicate email")
)
