package service

import "errors"

var (
	// ErrUserExists is returned by Register when the email is taken.
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials is returned by Login for an unknown email
	// and for a wrong password alike, so callers cannot enumerate
	// accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")

	ErrTaskNotFound = errors.New("task not found")

	// ErrNotOwner is returned when the caller is not the task's owner.
	ErrNotOwner = errors.New("not authorized")

	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
)
