package ports

import (
	"context"
	"time"
)

// ChainAccessRule mirrors the accessRule() struct exposed by the ownership
// NFT contract, in wire form before domain conversion.
type ChainAccessRule struct {
	RuleType      string
	TraitType     string
	TraitValue    string
	MinRarity     uint64
	ValidityStart time.Time
	ValidityEnd   *time.Time
	Transferable  bool
}

// ChainCollectionInfo mirrors the collectionInfo() struct exposed on-chain.
type ChainCollectionInfo struct {
	Name              string
	Symbol            string
	Description       string
	Category          string
	RoyaltyPercentage uint64
	MaxSupply         uint64
	PriceWei          string
	IsActive          bool
	Creator           string
}

// ChainReader exposes the on-chain reads the evaluator depends on. Every call
// suspends on network I/O; implementations apply a per-call timeout and wrap
// transport failures in domain.ErrChainUnavailable so callers can distinguish
// retryable faults from policy denials.
type ChainReader interface {
	BalanceOf(ctx context.Context, contractAddress, walletAddress string) (int64, error)
	TokenOfOwnerByIndex(ctx context.Context, contractAddress, walletAddress string, index int64) (int64, error)
	TokenTraits(ctx context.Context, contractAddress string, tokenID int64) (string, error)
	TokenRarity(ctx context.Context, contractAddress string, tokenID int64) (uint64, error)
	TotalSupply(ctx context.Context, contractAddress string) (int64, error)
	CollectionInfo(ctx context.Context, contractAddress string) (ChainCollectionInfo, error)
	AccessRule(ctx context.Context, contractAddress string) (ChainAccessRule, error)
}
