package models

import "errors"

var (
	// ErrInvalidArgument reports a malformed name, email or phone value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidAmount reports a non-positive monetary amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds reports a withdrawal or transfer exceeding the
	// account balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
)
