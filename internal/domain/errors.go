package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized signals an authenticated caller acting on a resource it does not own.
	// Ownership is checked before any state mutation so rejections have no partial effect.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidInput rejects malformed requests before any I/O is attempted.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidSignature covers recovery failure and recovered-address mismatch alike.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrStaleMessage rejects signed messages older than the replay window.
	ErrStaleMessage = errors.New("message timestamp outside allowed window")
	// ErrPairingCodeInvalid covers unknown codes, expired codes, and the loser
	// of a concurrent pairing race.
	ErrPairingCodeInvalid = errors.New("invalid or expired pairing code")
	// ErrWalletMismatch signals a pairing attempt from a wallet other than the
	// one the device row was issued for.
	ErrWalletMismatch  = errors.New("wallet address mismatch")
	ErrSessionNotFound = errors.New("invalid or expired session code")
	ErrConflict        = errors.New("conflict")
	ErrDeviceNotUsable = errors.New("device is not trusted and active")
	// ErrChainUnavailable marks transient RPC failures. Callers may retry without
	// asking the user to re-sign; it is never a policy denial.
	ErrChainUnavailable = errors.New("blockchain query failed")
)
