package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/ownership-platform/verification-service/internal/domain"
)

// Config carries the application-level tunables resolved at bootstrap.
type Config struct {
	MessageFreshness   time.Duration
	SessionTTL         time.Duration
	PairingCodeTTL     time.Duration
	TokenTTL           time.Duration
	RetentionDays      int
	VerifyChainCreator bool
}

// ChallengeRequest asks for a canonical message to sign.
type ChallengeRequest struct {
	WalletAddress   string `json:"wallet_address"`
	Action          string `json:"action"`
	ContractAddress string `json:"contract_address,omitempty"`
}

// ChallengeResponse carries the exact message the wallet must sign.
type ChallengeResponse struct {
	Message   string    `json:"message"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WalletVerifyRequest completes the challenge-response handshake.
type WalletVerifyRequest struct {
	WalletAddress string `json:"wallet_address"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
}

// WalletVerifyResponse returns the wallet session token.
type WalletVerifyResponse struct {
	Token         string    `json:"token"`
	WalletAddress string    `json:"wallet_address"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// AccessRuleInput is the wire shape of a declarative access rule.
type AccessRuleInput struct {
	RuleType      string     `json:"rule_type"`
	TraitType     string     `json:"trait_type,omitempty"`
	TraitValue    string     `json:"trait_value,omitempty"`
	MinRarity     uint64     `json:"min_rarity,omitempty"`
	ValidityStart *time.Time `json:"validity_start,omitempty"`
	ValidityEnd   *time.Time `json:"validity_end,omitempty"`
	Transferable  *bool      `json:"transferable,omitempty"`
}

// RegisterCollectionRequest registers an NFT contract with its policy metadata.
type RegisterCollectionRequest struct {
	ContractAddress   string           `json:"contract_address"`
	Name              string           `json:"name"`
	Symbol            string           `json:"symbol"`
	Description       string           `json:"description"`
	Category          string           `json:"category,omitempty"`
	ImageURL          string           `json:"image_url,omitempty"`
	RoyaltyPercentage float64          `json:"royalty_percentage,omitempty"`
	Price             string           `json:"price,omitempty"`
	Currency          string           `json:"currency,omitempty"`
	MaxSupply         int64            `json:"max_supply,omitempty"`
	AccessRule        *AccessRuleInput `json:"access_rule,omitempty"`
}

// UpdateCollectionRequest carries the mutable collection fields.
type UpdateCollectionRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	ImageURL    *string          `json:"image_url,omitempty"`
	AccessRule  *AccessRuleInput `json:"access_rule,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// CollectionView is the read shape returned to HTTP callers.
type CollectionView struct {
	ContractAddress   string          `json:"contract_address"`
	Name              string          `json:"name"`
	Symbol            string          `json:"symbol"`
	Description       string          `json:"description"`
	Category          string          `json:"category"`
	ImageURL          string          `json:"image_url,omitempty"`
	RoyaltyPercentage float64         `json:"royalty_percentage"`
	Price             string          `json:"price"`
	Currency          string          `json:"currency"`
	MaxSupply         int64           `json:"max_supply"`
	CurrentSupply     int64           `json:"current_supply"`
	Creator           string          `json:"creator"`
	AccessRule        AccessRuleInput `json:"access_rule"`
	IsActive          bool            `json:"is_active"`
	TotalVerifications int64          `json:"total_verifications"`
	UniqueHolders      int64          `json:"unique_holders"`
	CreatedAt          time.Time      `json:"created_at"`
}

// GenerateSessionRequest creates an organizer-scoped session code.
type GenerateSessionRequest struct {
	ContractAddress string `json:"contract_address"`
	EventName       string `json:"event_name,omitempty"`
	Location        string `json:"location,omitempty"`
	TTLMinutes      int    `json:"ttl_minutes,omitempty"`
}

// GenerateSessionResponse returns the live code and its expiry.
type GenerateSessionResponse struct {
	SessionCode    string    `json:"session_code"`
	ExpiresAt      time.Time `json:"expires_at"`
	CollectionName string    `json:"collection_name"`
	EventName      string    `json:"event_name"`
}

// SessionView is one live session in an organizer listing.
type SessionView struct {
	SessionCode       string    `json:"session_code"`
	ContractAddress   string    `json:"contract_address"`
	EventName         string    `json:"event_name"`
	Location          string    `json:"location,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	VerificationCount int64     `json:"verification_count"`
}

// VerifyRequest is a direct signature-based verification attempt.
type VerifyRequest struct {
	WalletAddress   string `json:"wallet_address"`
	ContractAddress string `json:"contract_address"`
	Signature       string `json:"signature"`
	Message         string `json:"message"`
	DeviceID        string `json:"device_id,omitempty"`
	SessionCode     string `json:"session_code,omitempty"`
	IPAddress       string `json:"-"`
	UserAgent       string `json:"-"`
}

// SessionVerifyRequest is a verification attempt mediated by a session code;
// the contract address is resolved from the code.
type SessionVerifyRequest struct {
	SessionCode   string `json:"session_code"`
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
	DeviceID      string `json:"device_id,omitempty"`
	IPAddress     string `json:"-"`
	UserAgent     string `json:"-"`
}

// TokenInfo is the ownership evidence attached to successful checks.
type TokenInfo struct {
	TokenIDs []int64             `json:"token_ids"`
	Balance  int64               `json:"balance"`
	Traits   []domain.TokenTrait `json:"traits,omitempty"`
}

// VerifyResponse reports one check outcome plus its audit reference.
type VerifyResponse struct {
	Success         bool       `json:"success"`
	VerificationID  uuid.UUID  `json:"verification_id"`
	Result          string     `json:"result"`
	Reason          string     `json:"reason,omitempty"`
	Retryable       bool       `json:"retryable,omitempty"`
	WalletAddress   string     `json:"wallet_address"`
	ContractAddress string     `json:"contract_address"`
	CollectionName  string     `json:"collection_name"`
	VerifiedAt      time.Time  `json:"verified_at"`
	TokenInfo       *TokenInfo `json:"token_info,omitempty"`
}

// IssuePairingCodeRequest registers a new device and returns its pairing code.
type IssuePairingCodeRequest struct {
	WalletAddress string `json:"wallet_address"`
	DeviceName    string `json:"device_name"`
	DeviceType    string `json:"device_type,omitempty"`
	Platform      string `json:"platform,omitempty"`
	IPAddress     string `json:"-"`
	UserAgent     string `json:"-"`
}

// IssuePairingCodeResponse returns the fresh code bound to the new device row.
type IssuePairingCodeResponse struct {
	DeviceID    uuid.UUID `json:"device_id"`
	PairingCode string    `json:"pairing_code"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CompletePairingRequest consumes a pairing code under an owner signature.
type CompletePairingRequest struct {
	PairingCode   string `json:"pairing_code"`
	WalletAddress string `json:"wallet_address"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
}

// CompletePairingResponse confirms the trusted device.
type CompletePairingResponse struct {
	DeviceID   uuid.UUID `json:"device_id"`
	DeviceName string    `json:"device_name"`
	PairedAt   time.Time `json:"paired_at"`
}

// RevokeDeviceRequest removes one device (or all) under an owner signature.
type RevokeDeviceRequest struct {
	WalletAddress string `json:"wallet_address"`
	Message       string `json:"message"`
	Signature     string `json:"signature"`
}

// DeviceView is one device in a wallet's listing.
type DeviceView struct {
	DeviceID          uuid.UUID  `json:"device_id"`
	DeviceName        string     `json:"device_name"`
	DeviceType        string     `json:"device_type"`
	Platform          string     `json:"platform"`
	IsTrusted         bool       `json:"is_trusted"`
	LastUsed          time.Time  `json:"last_used"`
	PairedAt          *time.Time `json:"paired_at,omitempty"`
	TotalVerifications int64     `json:"total_verifications"`
}

// HistoryItem is one row of a wallet's verification history.
type HistoryItem struct {
	VerificationID  uuid.UUID `json:"verification_id"`
	Result          string    `json:"result"`
	Reason          string    `json:"reason,omitempty"`
	ContractAddress string    `json:"contract_address"`
	Method          string    `json:"verification_method"`
	VerifiedAt      time.Time `json:"verified_at"`
	EventName       string    `json:"event_name,omitempty"`
	Location        string    `json:"location,omitempty"`
}

// HistoryPage wraps paginated history results.
type HistoryPage struct {
	Items   []HistoryItem `json:"verifications"`
	Total   int64         `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
	HasMore bool          `json:"has_more"`
}

// StatsTotals summarizes a stats window.
type StatsTotals struct {
	Total       int64   `json:"total"`
	Success     int64   `json:"success"`
	Failed      int64   `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// CollectionStats is the organizer-facing analytics bundle for one collection.
type CollectionStats struct {
	DailyStats     []domain.DailyStat    `json:"daily_stats"`
	Totals         StatsTotals           `json:"totals"`
	FailureReasons []domain.ReasonCount  `json:"failure_reasons"`
	PeriodDays     int                   `json:"period_days"`
}
