package service

import "errors"

var (
	// ErrNotMember means the acting user does not belong to the group they
	// are trying to read or modify.
	ErrNotMember = errors.New("you must be a member of this group")

	// ErrInvalidInput means a request field failed validation before any
	// state was touched.
	ErrInvalidInput = errors.New("invalid input")
)
