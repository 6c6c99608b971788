package settlement

import "errors"

var (
	ErrInvalidOrder       = errors.New("Invalid order")
	ErrUnknownTicker      = errors.New("Unknown ticker")
	ErrAccountNotFound    = errors.New("Account not found")
	ErrInsufficientFunds  = errors.New("Insufficient funds")
	ErrInsufficientShares = errors.New("Insufficient shares")
	ErrNoPosition         = errors.New("No position in this ticker")
	ErrConflict           = errors.New("Concurrent update detected, please retry")
)
