package ledger

import "errors"

// Ledger domain errors.
var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidCost         = errors.New("cost must be positive")
	ErrInvalidUserID       = errors.New("user id is required")
	ErrNegativeBalance     = errors.New("balance must not be negative")
)
