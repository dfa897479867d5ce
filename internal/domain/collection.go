package domain

import (
	"fmt"
	"time"
)

// Collection is a registered NFT contract plus the access policy gating it.
// It keeps only verification-relevant state so policy evaluation stays service-owned.
type Collection struct {
	ContractAddress   string
	Name              string
	Symbol            string
	Description       string
	Category          string
	RoyaltyPercentage float64
	Price             string
	Currency          string
	MaxSupply         int64
	CurrentSupply     int64
	Creator           string
	AccessRule        AccessRule
	ImageURL          string
	IsActive          bool
	TotalVerifications int64
	UniqueHolders      int64
	DeployedAt         time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate enforces the structural invariants that must hold before persistence.
func (c Collection) Validate() error {
	if c.ContractAddress == "" {
		return fmt.Errorf("%w: contract address is required", ErrInvalidInput)
	}
	if c.Name == "" || c.Symbol == "" {
		return fmt.Errorf("%w: name and symbol are required", ErrInvalidInput)
	}
	if c.Creator == "" {
		return fmt.Errorf("%w: creator is required", ErrInvalidInput)
	}
	if c.MaxSupply > 0 && c.CurrentSupply > c.MaxSupply {
		return fmt.Errorf("%w: current supply exceeds max supply", ErrInvalidInput)
	}
	return c.AccessRule.Validate()
}

// RulePredicate is the sealed set of access-rule variants. Each variant carries
// only the fields that are meaningful for its kind, so a min-rarity rule can
// never be asked for a trait type.
type RulePredicate interface {
	Kind() string
	sealedRule()
}

const (
	RuleHoldOne       = "hold-one"
	RuleSpecificTrait = "specific-trait"
	RuleMinRarity     = "min-rarity"
)

// HoldOneRule is satisfied by owning any token in the collection.
type HoldOneRule struct{}

func (HoldOneRule) Kind() string { return RuleHoldOne }
func (HoldOneRule) sealedRule()  {}

// SpecificTraitRule requires at least one owned token with the named trait value.
type SpecificTraitRule struct {
	TraitType  string
	TraitValue string
}

func (SpecificTraitRule) Kind() string { return RuleSpecificTrait }
func (SpecificTraitRule) sealedRule()  {}

// MinRarityRule requires at least one owned token at or above the rarity floor.
type MinRarityRule struct {
	MinRarity uint64
}

func (MinRarityRule) Kind() string { return RuleMinRarity }
func (MinRarityRule) sealedRule()  {}

// AccessRule is the declarative policy attached to a collection: one rule
// variant plus an optional validity window layered on top of it.
type AccessRule struct {
	Predicate     RulePredicate
	ValidityStart time.Time
	ValidityEnd   *time.Time
	Transferable  bool
}

// Validate checks variant completeness and window ordering.
func (r AccessRule) Validate() error {
	switch p := r.Predicate.(type) {
	case HoldOneRule:
	case SpecificTraitRule:
		if p.TraitType == "" || p.TraitValue == "" {
			return fmt.Errorf("%w: specific-trait rule requires traitType and traitValue", ErrInvalidInput)
		}
	case MinRarityRule:
	case nil:
		return fmt.Errorf("%w: access rule predicate is required", ErrInvalidInput)
	default:
		return fmt.Errorf("%w: unknown rule kind", ErrInvalidInput)
	}
	if r.ValidityEnd != nil && r.ValidityEnd.Before(r.ValidityStart) {
		return fmt.Errorf("%w: validityEnd precedes validityStart", ErrInvalidInput)
	}
	return nil
}

// WithinWindow reports whether the instant falls inside the validity window.
// Both bounds are inclusive; a nil end means no upper bound.
func (r AccessRule) WithinWindow(at time.Time) bool {
	if at.Before(r.ValidityStart) {
		return false
	}
	if r.ValidityEnd != nil && at.After(*r.ValidityEnd) {
		return false
	}
	return true
}
