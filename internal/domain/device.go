package domain

import (
	"time"

	"github.com/google/uuid"
)

// Device is a wallet-owned client registered for fast repeat verification.
// Lifecycle: created unpaired with a fresh code, trusted once the code is
// consumed under a valid owner signature, revoked irreversibly by the owner.
type Device struct {
	DeviceID          uuid.UUID
	WalletAddress     string
	DeviceName        string
	DeviceType        string
	Platform          string
	PairingCode       *string
	PairingCodeExpiry *time.Time
	IsTrusted         bool
	IsActive          bool
	LastUsed          time.Time
	TotalVerifications int64
	PairedAt           *time.Time
	LastIPAddress      string
	UserAgent          string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// UsableForVerification gates which devices may submit checks on the wallet's behalf.
func (d Device) UsableForVerification() bool {
	return d.IsActive && d.IsTrusted
}

// HasLiveCode reports whether the device still holds an unconsumed, unexpired pairing code.
func (d Device) HasLiveCode(now time.Time) bool {
	return d.PairingCode != nil && d.PairingCodeExpiry != nil && now.Before(*d.PairingCodeExpiry)
}
