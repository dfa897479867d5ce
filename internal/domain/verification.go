package domain

import (
	"time"

	"github.com/google/uuid"
)

// Verification methods accepted by the record writer.
const (
	MethodSignature   = "signature"
	MethodSessionCode = "session-code"
	MethodMobileApp   = "mobile-app"
)

// Verification results. Every check attempt lands in the log with exactly one of these.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// TokenTrait is the per-token evidence snapshot captured at verification time.
// Traits stay in their raw on-chain string form; rarity zero means unset.
type TokenTrait struct {
	TokenID int64  `json:"token_id"`
	Traits  string `json:"traits"`
	Rarity  uint64 `json:"rarity"`
}

// RuleSnapshot records which policy was applied, flattened for the audit log.
type RuleSnapshot struct {
	RuleType   string `json:"rule_type"`
	TraitType  string `json:"trait_type,omitempty"`
	TraitValue string `json:"trait_value,omitempty"`
	MinRarity  uint64 `json:"min_rarity,omitempty"`
}

// SnapshotRule flattens an access rule into its audit form.
func SnapshotRule(rule AccessRule) RuleSnapshot {
	snap := RuleSnapshot{}
	switch p := rule.Predicate.(type) {
	case HoldOneRule:
		snap.RuleType = RuleHoldOne
	case SpecificTraitRule:
		snap.RuleType = RuleSpecificTrait
		snap.TraitType = p.TraitType
		snap.TraitValue = p.TraitValue
	case MinRarityRule:
		snap.RuleType = RuleMinRarity
		snap.MinRarity = p.MinRarity
	}
	return snap
}

// Verification is one immutable record per check attempt. Rows are written once
// by the record writer and only ever removed by retention cleanup.
type Verification struct {
	VerificationID uuid.UUID
	SessionCode    *string
	WalletAddress  string
	ContractAddress string
	Method          string
	Signature       string
	Message         string
	MessageHash     string
	Result          string
	Reason          *string
	TokenIDs        []int64
	TokenTraits     []TokenTrait
	RuleApplied     RuleSnapshot
	DeviceID        *uuid.UUID
	IPAddress       string
	UserAgent       string
	OrganizerID     string
	EventName       string
	Location        string
	VerifiedAt      time.Time
	ExpiresAt       *time.Time
}

// DailyStat is one day of per-collection verification totals.
type DailyStat struct {
	Date    string `json:"date"`
	Success int64  `json:"success"`
	Failed  int64  `json:"failed"`
	Total   int64  `json:"total"`
}

// ReasonCount is one bucket of the failure-reason histogram.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int64  `json:"count"`
}

// OrganizerStats is the cross-collection rollup for a single organizer.
type OrganizerStats struct {
	TotalVerifications      int64   `json:"total_verifications"`
	SuccessfulVerifications int64   `json:"successful_verifications"`
	UniqueWallets           int64   `json:"unique_wallets"`
	UniqueCollections       int64   `json:"unique_collections"`
	SuccessRate             float64 `json:"success_rate"`
}
