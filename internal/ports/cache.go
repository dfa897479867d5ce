package ports

import (
	"context"
	"time"
)

// SessionData is the cache-resident envelope bound to a live session code.
// It is never persisted; expiry removes it entirely.
type SessionData struct {
	ContractAddress   string    `json:"contract_address"`
	OrganizerID       string    `json:"organizer_id"`
	EventName         string    `json:"event_name"`
	Location          string    `json:"location"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	VerificationCount int64     `json:"verification_count"`
}

// SessionCodeStore keeps short-lived organizer session codes with TTL
// semantics. Get returns (nil, nil) for codes that expired or never existed;
// the two cases are indistinguishable by design. IncrementCount must be atomic
// per code and must not extend the TTL.
type SessionCodeStore interface {
	Put(ctx context.Context, code string, data SessionData, ttl time.Duration) error
	Get(ctx context.Context, code string) (*SessionData, error)
	Delete(ctx context.Context, code string) error
	IncrementCount(ctx context.Context, code string) (int64, error)
	ListByOrganizer(ctx context.Context, organizerID string) (map[string]SessionData, error)
}
