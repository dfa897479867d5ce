package postgres

import (
	"time"

	"github.com/google/uuid"
)

type collectionModel struct {
	ContractAddress    string     `gorm:"column:contract_address;primaryKey"`
	Name               string     `gorm:"column:name"`
	Symbol             string     `gorm:"column:symbol"`
	Description        string     `gorm:"column:description"`
	Category           string     `gorm:"column:category"`
	ImageURL           string     `gorm:"column:image_url"`
	RoyaltyPercentage  float64    `gorm:"column:royalty_percentage"`
	Price              string     `gorm:"column:price"`
	Currency           string     `gorm:"column:currency"`
	MaxSupply          int64      `gorm:"column:max_supply"`
	CurrentSupply      int64      `gorm:"column:current_supply"`
	Creator            string     `gorm:"column:creator"`
	RuleType           string     `gorm:"column:rule_type"`
	RuleTraitType      string     `gorm:"column:rule_trait_type"`
	RuleTraitValue     string     `gorm:"column:rule_trait_value"`
	RuleMinRarity      int64      `gorm:"column:rule_min_rarity"`
	ValidityStart      time.Time  `gorm:"column:validity_start"`
	ValidityEnd        *time.Time `gorm:"column:validity_end"`
	Transferable       bool       `gorm:"column:transferable"`
	IsActive           bool       `gorm:"column:is_active"`
	TotalVerifications int64      `gorm:"column:total_verifications"`
	UniqueHolders      int64      `gorm:"column:unique_holders"`
	DeployedAt         time.Time  `gorm:"column:deployed_at"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (collectionModel) TableName() string { return "collections" }

type deviceModel struct {
	DeviceID           uuid.UUID  `gorm:"column:device_id;type:uuid;default:gen_random_uuid();primaryKey"`
	WalletAddress      string     `gorm:"column:wallet_address"`
	DeviceName         string     `gorm:"column:device_name"`
	DeviceType         string     `gorm:"column:device_type"`
	Platform           string     `gorm:"column:platform"`
	PairingCode        *string    `gorm:"column:pairing_code"`
	PairingCodeExpiry  *time.Time `gorm:"column:pairing_code_expiry"`
	IsTrusted          bool       `gorm:"column:is_trusted"`
	IsActive           bool       `gorm:"column:is_active"`
	LastUsed           time.Time  `gorm:"column:last_used"`
	TotalVerifications int64      `gorm:"column:total_verifications"`
	PairedAt           *time.Time `gorm:"column:paired_at"`
	LastIPAddress      *string    `gorm:"column:last_ip_address"`
	UserAgent          string     `gorm:"column:user_agent"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (deviceModel) TableName() string { return "devices" }

type verificationModel struct {
	VerificationID  uuid.UUID  `gorm:"column:verification_id;type:uuid;primaryKey"`
	SessionCode     *string    `gorm:"column:session_code"`
	WalletAddress   string     `gorm:"column:wallet_address"`
	ContractAddress string     `gorm:"column:contract_address"`
	Method          string     `gorm:"column:verification_method"`
	Signature       string     `gorm:"column:signature"`
	Message         string     `gorm:"column:message"`
	MessageHash     string     `gorm:"column:message_hash"`
	Result          string     `gorm:"column:result"`
	Reason          *string    `gorm:"column:reason"`
	TokenIDs        string     `gorm:"column:token_ids;type:jsonb"`
	TokenTraits     string     `gorm:"column:token_traits;type:jsonb"`
	RuleApplied     string     `gorm:"column:rule_applied;type:jsonb"`
	DeviceID        *uuid.UUID `gorm:"column:device_id"`
	IPAddress       *string    `gorm:"column:ip_address"`
	UserAgent       string     `gorm:"column:user_agent"`
	OrganizerID     string     `gorm:"column:organizer_id"`
	EventName       string     `gorm:"column:event_name"`
	Location        string     `gorm:"column:location"`
	VerifiedAt      time.Time  `gorm:"column:verified_at"`
	ExpiresAt       *time.Time `gorm:"column:expires_at"`
}

func (verificationModel) TableName() string { return "verifications" }
