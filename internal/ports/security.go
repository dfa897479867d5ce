package ports

import "time"

// SignatureVerifier checks control of a wallet. Verify is a pure predicate:
// malformed signatures and recovery failures yield false, never an error.
type SignatureVerifier interface {
	Verify(message, signature, claimedAddress string) bool
}

// WalletClaims is the authenticated-caller context issued after a successful
// challenge-response. Downstream components treat the wallet address as a
// trusted input once this boundary has validated it.
type WalletClaims struct {
	WalletAddress string
	IssuedAt      time.Time
	ExpiresAt     time.Time
	KeyID         string
}

// TokenSigner issues and validates the wallet session tokens consumed by the
// HTTP auth middleware.
type TokenSigner interface {
	Sign(claims WalletClaims) (string, error)
	ParseAndValidate(raw string) (WalletClaims, error)
}
