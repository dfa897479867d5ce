package application

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

type fakeChain struct {
	balances    map[string]int64
	tokens      map[string][]int64
	traits      map[int64]string
	rarities    map[int64]uint64
	info        ports.ChainCollectionInfo
	infoErr     error
	supply      int64
	chainRule   ports.ChainAccessRule
	balanceErr  error
	enumErr     error
	traitErr    error
	enumAfter   int
	balanceCall int
}

func chainKey(contract, wallet string) string { return contract + "|" + wallet }

func (f *fakeChain) BalanceOf(_ context.Context, contract, wallet string) (int64, error) {
	f.balanceCall++
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	return f.balances[chainKey(contract, wallet)], nil
}

func (f *fakeChain) TokenOfOwnerByIndex(_ context.Context, contract, wallet string, index int64) (int64, error) {
	if f.enumErr != nil && index >= int64(f.enumAfter) {
		return 0, f.enumErr
	}
	owned := f.tokens[chainKey(contract, wallet)]
	if index >= int64(len(owned)) {
		return 0, fmt.Errorf("%w: index out of range", domain.ErrChainUnavailable)
	}
	return owned[index], nil
}

func (f *fakeChain) TokenTraits(_ context.Context, _ string, tokenID int64) (string, error) {
	if f.traitErr != nil {
		return "", f.traitErr
	}
	return f.traits[tokenID], nil
}

func (f *fakeChain) TokenRarity(_ context.Context, _ string, tokenID int64) (uint64, error) {
	return f.rarities[tokenID], nil
}

func (f *fakeChain) TotalSupply(context.Context, string) (int64, error) { return f.supply, nil }

func (f *fakeChain) CollectionInfo(context.Context, string) (ports.ChainCollectionInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeChain) AccessRule(context.Context, string) (ports.ChainAccessRule, error) {
	return f.chainRule, nil
}

const (
	testContract = "0xc011ec7100000000000000000000000000000001"
	testWallet   = "0x3a11e700000000000000000000000000000000aa"
)

func evalCollection(predicate domain.RulePredicate) domain.Collection {
	return domain.Collection{
		ContractAddress: testContract,
		Name:            "Genesis Pass",
		Symbol:          "GEN",
		Creator:         "0x2222222222222222222222222222222222222222",
		IsActive:        true,
		AccessRule: domain.AccessRule{
			Predicate:     predicate,
			ValidityStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			Transferable:  true,
		},
	}
}

func newEvalFixture(chain *fakeChain) *RuleEvaluator {
	e := NewRuleEvaluator(chain)
	e.nowFn = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }
	return e
}

func TestEvaluateInactiveCollection(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{}
	e := newEvalFixture(chain)
	collection := evalCollection(domain.HoldOneRule{})
	collection.IsActive = false

	res := e.Evaluate(context.Background(), collection, testWallet)
	if res.Success || res.Reason != ReasonCollectionInactive {
		t.Fatalf("expected inactive reason, got %+v", res)
	}
	if chain.balanceCall != 0 {
		t.Fatalf("inactive collection must short-circuit before any chain read")
	}
}

func TestEvaluateOutsideValidityWindow(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{}
	e := newEvalFixture(chain)
	collection := evalCollection(domain.HoldOneRule{})
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	collection.AccessRule.ValidityEnd = &end

	res := e.Evaluate(context.Background(), collection, testWallet)
	if res.Success || res.Reason != ReasonTimeValidity {
		t.Fatalf("expected time validity reason, got %+v", res)
	}
	if chain.balanceCall != 0 {
		t.Fatalf("window check must precede chain reads")
	}
}

func TestEvaluateZeroBalance(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{balances: map[string]int64{}}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.HoldOneRule{}), testWallet)
	if res.Success || res.Reason != ReasonNoTokens {
		t.Fatalf("expected no-tokens reason, got %+v", res)
	}
}

func TestEvaluateHoldOneSuccess(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 2},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): {7, 12}},
		traits:   map[int64]string{7: `{"tier":"vip"}`},
		rarities: map[int64]uint64{7: 90, 12: 10},
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.HoldOneRule{}), testWallet)
	if !res.Success || res.Reason != "" {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.Balance != 2 || len(res.TokenIDs) != 2 || res.TokenIDs[0] != 7 {
		t.Fatalf("unexpected evidence: %+v", res)
	}
	if len(res.TokenTraits) != 2 || res.TokenTraits[0].Rarity != 90 {
		t.Fatalf("unexpected trait evidence: %+v", res.TokenTraits)
	}
}

func TestEvaluateSpecificTrait(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 2},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): {1, 2}},
		traits:   map[int64]string{1: `{"tier":"standard"}`, 2: `{"tier":"vip"}`},
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.SpecificTraitRule{TraitType: "tier", TraitValue: "vip"}), testWallet)
	if !res.Success {
		t.Fatalf("expected trait match, got %+v", res)
	}

	res = e.Evaluate(context.Background(), evalCollection(domain.SpecificTraitRule{TraitType: "tier", TraitValue: "legendary"}), testWallet)
	if res.Success || res.Reason != ReasonRuleNotMet {
		t.Fatalf("expected rule-not-met, got %+v", res)
	}
	if res.Balance != 2 {
		t.Fatalf("denial must still report balance, got %+v", res)
	}
}

func TestEvaluateSpecificTraitUnparseableBlob(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 1},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): {1}},
		traits:   map[int64]string{1: "not-json"},
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.SpecificTraitRule{TraitType: "tier", TraitValue: "vip"}), testWallet)
	if res.Success || res.Reason != ReasonRuleNotMet {
		t.Fatalf("unparseable traits must never match, got %+v", res)
	}
}

func TestEvaluateMinRarity(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 2},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): {1, 2}},
		rarities: map[int64]uint64{1: 40, 2: 75},
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.MinRarityRule{MinRarity: 75}), testWallet)
	if !res.Success {
		t.Fatalf("rarity at threshold must satisfy, got %+v", res)
	}

	res = e.Evaluate(context.Background(), evalCollection(domain.MinRarityRule{MinRarity: 76}), testWallet)
	if res.Success || res.Reason != ReasonRuleNotMet {
		t.Fatalf("expected rule-not-met, got %+v", res)
	}
}

func TestEvaluateChainFailureIsRetryable(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{balanceErr: fmt.Errorf("%w: rpc timeout", domain.ErrChainUnavailable)}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.HoldOneRule{}), testWallet)
	if res.Success || res.Reason != ReasonChainUnavailable || !res.Retryable {
		t.Fatalf("expected retryable chain failure, got %+v", res)
	}
}

func TestEvaluateCapsTokenEvidence(t *testing.T) {
	t.Parallel()

	owned := make([]int64, 25)
	for i := range owned {
		owned[i] = int64(i + 1)
	}
	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 25},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): owned},
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.HoldOneRule{}), testWallet)
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(res.TokenIDs) != maxTokenDetails || len(res.TokenTraits) != maxTokenDetails {
		t.Fatalf("evidence must cap at %d tokens, got %d ids / %d traits",
			maxTokenDetails, len(res.TokenIDs), len(res.TokenTraits))
	}
	if res.Balance != 25 {
		t.Fatalf("balance must report full holdings, got %d", res.Balance)
	}
}

func TestEvaluateTraitMatchBeyondEvidenceCap(t *testing.T) {
	t.Parallel()

	// Twelve tokens, and only the last one carries the required trait. The
	// match must be found past the evidence cap while the recorded evidence
	// stays bounded.
	owned := make([]int64, 12)
	traits := map[int64]string{}
	for i := range owned {
		owned[i] = int64(i + 1)
		traits[owned[i]] = `{"tier":"standard"}`
	}
	traits[12] = `{"tier":"vip"}`
	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 12},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): owned},
		traits:   traits,
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.SpecificTraitRule{TraitType: "tier", TraitValue: "vip"}), testWallet)
	if !res.Success {
		t.Fatalf("match beyond the evidence cap must satisfy the rule, got %+v", res)
	}
	if len(res.TokenIDs) != maxTokenDetails || len(res.TokenTraits) != maxTokenDetails {
		t.Fatalf("evidence must stay capped at %d, got %d ids / %d traits",
			maxTokenDetails, len(res.TokenIDs), len(res.TokenTraits))
	}
}

func TestEvaluateMinRarityMatchBeyondEvidenceCap(t *testing.T) {
	t.Parallel()

	owned := make([]int64, 15)
	rarities := map[int64]uint64{}
	for i := range owned {
		owned[i] = int64(i + 1)
		rarities[owned[i]] = 5
	}
	rarities[15] = 95
	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 15},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): owned},
		rarities: rarities,
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.MinRarityRule{MinRarity: 90}), testWallet)
	if !res.Success {
		t.Fatalf("rarity match beyond the evidence cap must satisfy, got %+v", res)
	}

	res = e.Evaluate(context.Background(), evalCollection(domain.MinRarityRule{MinRarity: 99}), testWallet)
	if res.Success || res.Reason != ReasonRuleNotMet {
		t.Fatalf("full-balance scan without a match must deny, got %+v", res)
	}
}

func TestEvaluateTruncatesOnEnumerationError(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{
		balances:  map[string]int64{chainKey(testContract, testWallet): 5},
		tokens:    map[string][]int64{chainKey(testContract, testWallet): {1, 2, 3, 4, 5}},
		enumErr:   fmt.Errorf("%w: rpc hiccup", domain.ErrChainUnavailable),
		enumAfter: 2,
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.HoldOneRule{}), testWallet)
	if !res.Success {
		t.Fatalf("enumeration truncation must not fail the check, got %+v", res)
	}
	if len(res.TokenIDs) != 2 {
		t.Fatalf("expected truncated evidence of 2 tokens, got %d", len(res.TokenIDs))
	}
}

func TestEvaluateTraitReadFailureStillCounts(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 1},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): {9}},
		traitErr: fmt.Errorf("%w: trait read failed", domain.ErrChainUnavailable),
	}
	e := newEvalFixture(chain)

	res := e.Evaluate(context.Background(), evalCollection(domain.HoldOneRule{}), testWallet)
	if !res.Success || len(res.TokenTraits) != 1 {
		t.Fatalf("trait failure must not drop the token, got %+v", res)
	}
	if res.TokenTraits[0].Traits != "" || res.TokenTraits[0].TokenID != 9 {
		t.Fatalf("expected empty-trait entry for token 9, got %+v", res.TokenTraits[0])
	}
}

func TestEvaluateDeterministicForFixedSnapshot(t *testing.T) {
	t.Parallel()

	chain := &fakeChain{
		balances: map[string]int64{chainKey(testContract, testWallet): 3},
		tokens:   map[string][]int64{chainKey(testContract, testWallet): {3, 1, 2}},
		rarities: map[int64]uint64{3: 10, 1: 20, 2: 30},
	}
	e := newEvalFixture(chain)
	collection := evalCollection(domain.MinRarityRule{MinRarity: 15})

	first := e.Evaluate(context.Background(), collection, testWallet)
	for i := 0; i < 5; i++ {
		again := e.Evaluate(context.Background(), collection, testWallet)
		if again.Success != first.Success || again.Reason != first.Reason || len(again.TokenIDs) != len(first.TokenIDs) {
			t.Fatalf("evaluation diverged on run %d: %+v vs %+v", i, again, first)
		}
		for j := range again.TokenIDs {
			if again.TokenIDs[j] != first.TokenIDs[j] {
				t.Fatalf("token order diverged on run %d", i)
			}
		}
	}
}
