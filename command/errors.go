package command

import "errors"

// Sentinel errors for the command registry.
var (
	ErrNotFound      = errors.New("command not found")
	ErrAlreadyExists = errors.New("command already registered")
	ErrEmptyName     = errors.New("command name is empty")
)
