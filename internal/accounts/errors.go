package accounts

import "errors"

var (
	ErrInvalidUsername = errors.New("Username must be 3-32 characters (letters, digits, underscore)")
	ErrUsernameTaken   = errors.New("Username already taken")
	ErrAccountNotFound = errors.New("Account not found")
)
