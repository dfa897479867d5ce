package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

// ownershipABI is the read surface of the ownership NFT contract: the
// ERC-721 Enumerable subset plus the platform's trait, rarity, access-rule
// and collection-info views.
const ownershipABI = `[
  {"name":"balanceOf","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"tokenOfOwnerByIndex","type":"function","stateMutability":"view","inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"totalSupply","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"getTokenTraits","type":"function","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]},
  {"name":"getTokenRarity","type":"function","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
  {"name":"accessRule","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple","components":[{"name":"ruleType","type":"string"},{"name":"traitType","type":"string"},{"name":"traitValue","type":"string"},{"name":"minRarity","type":"uint256"},{"name":"validityStart","type":"uint256"},{"name":"validityEnd","type":"uint256"},{"name":"transferable","type":"bool"}]}]},
  {"name":"collectionInfo","type":"function","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple","components":[{"name":"name","type":"string"},{"name":"symbol","type":"string"},{"name":"description","type":"string"},{"name":"category","type":"string"},{"name":"royaltyPercentage","type":"uint256"},{"name":"maxSupply","type":"uint256"},{"name":"price","type":"uint256"},{"name":"isActive","type":"bool"},{"name":"creator","type":"address"}]}]}
]`

// collectionInfoTuple and accessRuleTuple mirror the contract's tuple returns;
// field order and names must track the ABI components.
type collectionInfoTuple struct {
	Name              string
	Symbol            string
	Description       string
	Category          string
	RoyaltyPercentage *big.Int
	MaxSupply         *big.Int
	Price             *big.Int
	IsActive          bool
	Creator           common.Address
}

type accessRuleTuple struct {
	RuleType      string
	TraitType     string
	TraitValue    string
	MinRarity     *big.Int
	ValidityStart *big.Int
	ValidityEnd   *big.Int
	Transferable  bool
}

// Reader reads ownership state over JSON-RPC with a per-call timeout.
// Transport and revert failures come back wrapped in domain.ErrChainUnavailable.
type Reader struct {
	client  *ethclient.Client
	parsed  abi.ABI
	timeout time.Duration
}

func NewReader(rpcURL string, timeout time.Duration) (*Reader, error) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	parsed, err := abi.JSON(strings.NewReader(ownershipABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract abi: %w", err)
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc endpoint: %w", err)
	}
	return &Reader{client: client, parsed: parsed, timeout: timeout}, nil
}

func (r *Reader) Close() {
	r.client.Close()
}

func (r *Reader) BalanceOf(ctx context.Context, contractAddress, walletAddress string) (int64, error) {
	out, err := r.call(ctx, contractAddress, "balanceOf", common.HexToAddress(walletAddress))
	if err != nil {
		return 0, err
	}
	return asBigInt(out[0]).Int64(), nil
}

func (r *Reader) TokenOfOwnerByIndex(ctx context.Context, contractAddress, walletAddress string, index int64) (int64, error) {
	out, err := r.call(ctx, contractAddress, "tokenOfOwnerByIndex", common.HexToAddress(walletAddress), big.NewInt(index))
	if err != nil {
		return 0, err
	}
	return asBigInt(out[0]).Int64(), nil
}

func (r *Reader) TokenTraits(ctx context.Context, contractAddress string, tokenID int64) (string, error) {
	out, err := r.call(ctx, contractAddress, "getTokenTraits", big.NewInt(tokenID))
	if err != nil {
		return "", err
	}
	traits, _ := out[0].(string)
	return traits, nil
}

func (r *Reader) TokenRarity(ctx context.Context, contractAddress string, tokenID int64) (uint64, error) {
	out, err := r.call(ctx, contractAddress, "getTokenRarity", big.NewInt(tokenID))
	if err != nil {
		return 0, err
	}
	return asBigInt(out[0]).Uint64(), nil
}

func (r *Reader) TotalSupply(ctx context.Context, contractAddress string) (int64, error) {
	out, err := r.call(ctx, contractAddress, "totalSupply")
	if err != nil {
		return 0, err
	}
	return asBigInt(out[0]).Int64(), nil
}

func (r *Reader) CollectionInfo(ctx context.Context, contractAddress string) (ports.ChainCollectionInfo, error) {
	out, err := r.call(ctx, contractAddress, "collectionInfo")
	if err != nil {
		return ports.ChainCollectionInfo{}, err
	}
	return decodeCollectionInfo(out)
}

func (r *Reader) AccessRule(ctx context.Context, contractAddress string) (ports.ChainAccessRule, error) {
	out, err := r.call(ctx, contractAddress, "accessRule")
	if err != nil {
		return ports.ChainAccessRule{}, err
	}
	return decodeAccessRule(out)
}

func decodeCollectionInfo(out []any) (ports.ChainCollectionInfo, error) {
	if len(out) != 1 {
		return ports.ChainCollectionInfo{}, fmt.Errorf("%w: unexpected collectionInfo shape", domain.ErrChainUnavailable)
	}
	info := *abi.ConvertType(out[0], new(collectionInfoTuple)).(*collectionInfoTuple)
	return ports.ChainCollectionInfo{
		Name:              info.Name,
		Symbol:            info.Symbol,
		Description:       info.Description,
		Category:          info.Category,
		RoyaltyPercentage: asBigInt(info.RoyaltyPercentage).Uint64(),
		MaxSupply:         asBigInt(info.MaxSupply).Uint64(),
		PriceWei:          asBigInt(info.Price).String(),
		IsActive:          info.IsActive,
		Creator:           strings.ToLower(info.Creator.Hex()),
	}, nil
}

func decodeAccessRule(out []any) (ports.ChainAccessRule, error) {
	if len(out) != 1 {
		return ports.ChainAccessRule{}, fmt.Errorf("%w: unexpected accessRule shape", domain.ErrChainUnavailable)
	}
	raw := *abi.ConvertType(out[0], new(accessRuleTuple)).(*accessRuleTuple)

	rule := ports.ChainAccessRule{
		RuleType:      raw.RuleType,
		TraitType:     raw.TraitType,
		TraitValue:    raw.TraitValue,
		MinRarity:     asBigInt(raw.MinRarity).Uint64(),
		ValidityStart: time.Unix(asBigInt(raw.ValidityStart).Int64(), 0).UTC(),
		Transferable:  raw.Transferable,
	}
	// Zero means open-ended on chain.
	if end := asBigInt(raw.ValidityEnd); end.Sign() > 0 {
		endAt := time.Unix(end.Int64(), 0).UTC()
		rule.ValidityEnd = &endAt
	}
	return rule, nil
}

// call packs, executes and unpacks one eth_call against the contract.
func (r *Reader) call(ctx context.Context, contractAddress, method string, args ...any) ([]any, error) {
	input, err := r.parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: pack %s: %v", domain.ErrChainUnavailable, method, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	contract := common.HexToAddress(contractAddress)
	raw, err := r.client.CallContract(callCtx, ethereum.CallMsg{To: &contract, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: call %s: %v", domain.ErrChainUnavailable, method, err)
	}
	out, err := r.parsed.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: unpack %s: %v", domain.ErrChainUnavailable, method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty result for %s", domain.ErrChainUnavailable, method)
	}
	return out, nil
}

func asBigInt(v any) *big.Int {
	if n, ok := v.(*big.Int); ok && n != nil {
		return n
	}
	return new(big.Int)
}
