package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

// Evaluator reasons carried on verification records. Policy denials keep the
// exact strings clients already display; the retryable reasons are distinct so
// callers can retry without re-prompting for a signature.
const (
	ReasonCollectionInactive = "Collection is not active"
	ReasonTimeValidity       = "Access rule time validity check failed"
	ReasonNoTokens           = "No NFTs owned in this collection"
	ReasonRuleNotMet         = "Access rule requirements not met"
	ReasonChainUnavailable   = "Blockchain query failed - please try again"
)

// maxTokenDetails caps how many owned tokens are recorded as evidence.
// It bounds record size only; rule matching always covers the full balance.
const maxTokenDetails = 10

// EvaluationResult is the structured outcome of one policy check. Policy
// denials set Reason; transient chain faults additionally set Retryable.
type EvaluationResult struct {
	Success     bool
	Reason      string
	Retryable   bool
	Balance     int64
	TokenIDs    []int64
	TokenTraits []domain.TokenTrait
}

// RuleEvaluator decides whether a wallet satisfies a collection's access rule
// against the current on-chain snapshot. It is deterministic for a fixed
// snapshot and never returns an error for expected policy outcomes.
type RuleEvaluator struct {
	chain ports.ChainReader
	nowFn func() time.Time
}

func NewRuleEvaluator(chain ports.ChainReader) *RuleEvaluator {
	return &RuleEvaluator{chain: chain, nowFn: func() time.Time { return time.Now().UTC() }}
}

// Evaluate runs the ordered precondition chain, short-circuiting on the first
// failure with its distinct reason.
func (e *RuleEvaluator) Evaluate(ctx context.Context, collection domain.Collection, walletAddress string) EvaluationResult {
	if !collection.IsActive {
		return EvaluationResult{Reason: ReasonCollectionInactive}
	}
	if !collection.AccessRule.WithinWindow(e.nowFn()) {
		return EvaluationResult{Reason: ReasonTimeValidity}
	}

	balance, err := e.chain.BalanceOf(ctx, collection.ContractAddress, walletAddress)
	if err != nil {
		return chainFailure(ctx, "balance_of", err)
	}
	if balance == 0 {
		return EvaluationResult{Reason: ReasonNoTokens}
	}

	var match func(domain.TokenTrait) bool
	switch p := collection.AccessRule.Predicate.(type) {
	case domain.SpecificTraitRule:
		match = func(tt domain.TokenTrait) bool { return traitMatches(tt.Traits, p.TraitType, p.TraitValue) }
	case domain.MinRarityRule:
		match = func(tt domain.TokenTrait) bool { return tt.Rarity >= p.MinRarity }
	}

	tokenIDs, tokenTraits, matched := e.scanTokens(ctx, collection.ContractAddress, walletAddress, balance, match)

	satisfied := matched
	if match == nil {
		satisfied = balance > 0
	}
	if !satisfied {
		return EvaluationResult{Reason: ReasonRuleNotMet, Balance: balance}
	}

	return EvaluationResult{
		Success:     true,
		Balance:     balance,
		TokenIDs:    tokenIDs,
		TokenTraits: tokenTraits,
	}
}

// scanTokens walks the wallet's holdings in enumeration order. Only the first
// maxTokenDetails tokens are kept as evidence, but when a match predicate is
// given the walk continues over the full balance until some token satisfies
// it. Tokens whose trait reads fail still count toward ownership with
// empty-trait entries; enumeration errors stop the walk without failing the
// check.
func (e *RuleEvaluator) scanTokens(ctx context.Context, contractAddress, walletAddress string, balance int64, match func(domain.TokenTrait) bool) ([]int64, []domain.TokenTrait, bool) {
	evidence := balance
	if evidence > maxTokenDetails {
		evidence = maxTokenDetails
	}

	tokenIDs := make([]int64, 0, evidence)
	tokenTraits := make([]domain.TokenTrait, 0, evidence)
	matched := false
	for i := int64(0); i < balance; i++ {
		if int64(len(tokenIDs)) >= evidence && (match == nil || matched) {
			break
		}
		tokenID, err := e.chain.TokenOfOwnerByIndex(ctx, contractAddress, walletAddress, i)
		if err != nil {
			slog.Default().WarnContext(ctx, "token enumeration truncated",
				"service", serviceName,
				"module", "application",
				"layer", "application",
				"operation", "scan_tokens",
				"outcome", "warning",
				"contract_address", contractAddress,
				"index", i,
				"error", err,
			)
			break
		}

		entry := domain.TokenTrait{TokenID: tokenID}
		if traits, traitErr := e.chain.TokenTraits(ctx, contractAddress, tokenID); traitErr == nil {
			entry.Traits = traits
		}
		if rarity, rarityErr := e.chain.TokenRarity(ctx, contractAddress, tokenID); rarityErr == nil {
			entry.Rarity = rarity
		}
		if int64(len(tokenIDs)) < evidence {
			tokenIDs = append(tokenIDs, tokenID)
			tokenTraits = append(tokenTraits, entry)
		}
		if match != nil && !matched && match(entry) {
			matched = true
		}
	}
	return tokenIDs, tokenTraits, matched
}

// traitMatches interprets the on-chain trait blob as a flat JSON object and
// compares the named attribute. Unparseable blobs never match.
func traitMatches(raw, traitType, traitValue string) bool {
	if raw == "" {
		return false
	}
	var attrs map[string]string
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return false
	}
	return attrs[traitType] == traitValue
}

func chainFailure(ctx context.Context, operation string, err error) EvaluationResult {
	slog.Default().WarnContext(ctx, "chain read failed during evaluation",
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", operation,
		"outcome", "failure",
		"error", err,
	)
	return EvaluationResult{Reason: ReasonChainUnavailable, Retryable: true}
}
