package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ownership-platform/verification-service/internal/domain"
)

// CollectionFilter narrows collection listings.
type CollectionFilter struct {
	Category string
	Limit    int
	Offset   int
}

// CollectionRepository defines persistence for registered collections.
// Counter increments are a dedicated method so only the record writer path
// can mutate aggregate state, and atomically.
type CollectionRepository interface {
	Create(ctx context.Context, collection domain.Collection) (domain.Collection, error)
	GetByContract(ctx context.Context, contractAddress string) (domain.Collection, error)
	ListActive(ctx context.Context, filter CollectionFilter) ([]domain.Collection, int64, error)
	ListByCreator(ctx context.Context, creator string) ([]domain.Collection, error)
	Update(ctx context.Context, collection domain.Collection) (domain.Collection, error)
	Deactivate(ctx context.Context, contractAddress string, at time.Time) error
	IncrementVerifications(ctx context.Context, contractAddress string) error
}

// DeviceCreateParams captures the inputs for a fresh unpaired device row.
type DeviceCreateParams struct {
	WalletAddress     string
	DeviceName        string
	DeviceType        string
	Platform          string
	PairingCode       string
	PairingCodeExpiry time.Time
	LastIPAddress     string
	UserAgent         string
	CreatedAt         time.Time
}

// DeviceRepository manages the pairing state machine's persistent side.
// CompletePairing is a conditional update keyed on the live code so two
// concurrent completions cannot both succeed.
type DeviceRepository interface {
	Create(ctx context.Context, params DeviceCreateParams) (domain.Device, error)
	GetByID(ctx context.Context, deviceID uuid.UUID) (domain.Device, error)
	FindByLivePairingCode(ctx context.Context, code string, now time.Time) (domain.Device, error)
	// CompletePairing clears the code and marks the device trusted iff the
	// stored code still matches and has not expired. Returns false when the
	// code was already consumed or has lapsed.
	CompletePairing(ctx context.Context, deviceID uuid.UUID, code string, now time.Time) (bool, error)
	ListActiveByWallet(ctx context.Context, walletAddress string) ([]domain.Device, error)
	Revoke(ctx context.Context, deviceID uuid.UUID, at time.Time) error
	RevokeAllByWallet(ctx context.Context, walletAddress string, at time.Time) (int64, error)
	// Touch bumps lastUsed and the per-device counter; only trusted active rows match.
	Touch(ctx context.Context, deviceID uuid.UUID, at time.Time) error
	SweepExpiredCodes(ctx context.Context, now time.Time) (int64, error)
}

// VerificationRepository is the append-only audit log plus its read-side aggregations.
type VerificationRepository interface {
	Insert(ctx context.Context, verification domain.Verification) error
	ListByWallet(ctx context.Context, walletAddress string, limit, offset int) ([]domain.Verification, error)
	CountByWallet(ctx context.Context, walletAddress string) (int64, error)
	DailyStats(ctx context.Context, contractAddress string, since time.Time) ([]domain.DailyStat, error)
	FailureReasons(ctx context.Context, contractAddress string, since time.Time) ([]domain.ReasonCount, error)
	OrganizerStats(ctx context.Context, organizerID string, since time.Time) (domain.OrganizerStats, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
