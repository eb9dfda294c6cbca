package services

import (
	"errors"
)

// Rejection errors. The record is refused, nothing is mutated, and processing
// continues with the next record.
var (
	ErrInvalidAmount        = errors.New("transaction amount must be positive")
	ErrDuplicateTransaction = errors.New("transaction id already recorded")
	ErrAccountLocked        = errors.New("account is locked")
	ErrInsufficientFunds    = errors.New("insufficient available funds")
)

// Ignorable errors. The reference record points at nothing actionable; the
// engine skips it silently and processing continues.
var (
	ErrTransactionNotFound = errors.New("referenced transaction not found")
	ErrClientMismatch      = errors.New("referenced transaction belongs to a different client")
	ErrAlreadyDisputed     = errors.New("transaction is already under dispute")
	ErrNotDisputed         = errors.New("transaction is not under dispute")
	ErrChargedBack         = errors.New("transaction was already charged back")
)

// IsRejection reports whether err classifies as a per-record rejection.
func IsRejection(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrDuplicateTransaction) ||
		errors.Is(err, ErrAccountLocked) ||
		errors.Is(err, ErrInsufficientFunds)
}

// IsIgnorable reports whether err classifies as a silently skipped reference.
func IsIgnorable(err error) bool {
	return errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrClientMismatch) ||
		errors.Is(err, ErrAlreadyDisputed) ||
		errors.Is(err, ErrNotDisputed) ||
		errors.Is(err, ErrChargedBack)
}
