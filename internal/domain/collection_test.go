package domain

import (
	"errors"
	"testing"
	"time"
)

func validCollection() Collection {
	return Collection{
		ContractAddress: "0x1111111111111111111111111111111111111111",
		Name:            "Genesis Pass",
		Symbol:          "GEN",
		Creator:         "0x2222222222222222222222222222222222222222",
		AccessRule: AccessRule{
			Predicate:     HoldOneRule{},
			ValidityStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Transferable:  true,
		},
	}
}

func TestCollectionValidate(t *testing.T) {
	t.Parallel()

	if err := validCollection().Validate(); err != nil {
		t.Fatalf("valid collection rejected: %v", err)
	}

	c := validCollection()
	c.ContractAddress = ""
	if err := c.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing contract address: expected ErrInvalidInput, got %v", err)
	}

	c = validCollection()
	c.Symbol = ""
	if err := c.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing symbol: expected ErrInvalidInput, got %v", err)
	}

	c = validCollection()
	c.MaxSupply = 100
	c.CurrentSupply = 101
	if err := c.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("supply overflow: expected ErrInvalidInput, got %v", err)
	}
}

func TestAccessRuleValidate(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	before := start.Add(-time.Hour)

	cases := []struct {
		name    string
		rule    AccessRule
		wantErr bool
	}{
		{"hold one", AccessRule{Predicate: HoldOneRule{}, ValidityStart: start}, false},
		{"specific trait complete", AccessRule{Predicate: SpecificTraitRule{TraitType: "tier", TraitValue: "vip"}, ValidityStart: start}, false},
		{"specific trait missing value", AccessRule{Predicate: SpecificTraitRule{TraitType: "tier"}, ValidityStart: start}, true},
		{"min rarity", AccessRule{Predicate: MinRarityRule{MinRarity: 50}, ValidityStart: start}, false},
		{"nil predicate", AccessRule{ValidityStart: start}, true},
		{"window ordered", AccessRule{Predicate: HoldOneRule{}, ValidityStart: start, ValidityEnd: &end}, false},
		{"window inverted", AccessRule{Predicate: HoldOneRule{}, ValidityStart: start, ValidityEnd: &before}, true},
	}
	for _, tc := range cases {
		err := tc.rule.Validate()
		if tc.wantErr && !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestAccessRuleWithinWindow(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	bounded := AccessRule{Predicate: HoldOneRule{}, ValidityStart: start, ValidityEnd: &end}
	open := AccessRule{Predicate: HoldOneRule{}, ValidityStart: start}

	cases := []struct {
		name string
		rule AccessRule
		at   time.Time
		want bool
	}{
		{"before start", bounded, start.Add(-time.Second), false},
		{"at start", bounded, start, true},
		{"inside", bounded, start.Add(time.Hour), true},
		{"at end", bounded, end, true},
		{"after end", bounded, end.Add(time.Second), false},
		{"open-ended far future", open, end.AddDate(10, 0, 0), true},
	}
	for _, tc := range cases {
		if got := tc.rule.WithinWindow(tc.at); got != tc.want {
			t.Fatalf("%s: WithinWindow(%v) = %v, want %v", tc.name, tc.at, got, tc.want)
		}
	}
}

func TestSnapshotRule(t *testing.T) {
	t.Parallel()

	snap := SnapshotRule(AccessRule{Predicate: HoldOneRule{}})
	if snap.RuleType != RuleHoldOne || snap.TraitType != "" || snap.MinRarity != 0 {
		t.Fatalf("hold-one snapshot carried extra fields: %+v", snap)
	}

	snap = SnapshotRule(AccessRule{Predicate: SpecificTraitRule{TraitType: "tier", TraitValue: "vip"}})
	if snap.RuleType != RuleSpecificTrait || snap.TraitType != "tier" || snap.TraitValue != "vip" {
		t.Fatalf("specific-trait snapshot incomplete: %+v", snap)
	}

	snap = SnapshotRule(AccessRule{Predicate: MinRarityRule{MinRarity: 80}})
	if snap.RuleType != RuleMinRarity || snap.MinRarity != 80 {
		t.Fatalf("min-rarity snapshot incomplete: %+v", snap)
	}
}
