package chain

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

func parsedABI(t *testing.T) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(ownershipABI))
	if err != nil {
		t.Fatalf("parse abi: %v", err)
	}
	return parsed
}

// The selector is the keccak of the method signature, so the signatures below
// must match the deployed contract exactly or every call reverts.
func TestContractMethodSignatures(t *testing.T) {
	t.Parallel()

	parsed := parsedABI(t)
	want := map[string]string{
		"balanceOf":           "balanceOf(address)",
		"tokenOfOwnerByIndex": "tokenOfOwnerByIndex(address,uint256)",
		"totalSupply":         "totalSupply()",
		"getTokenTraits":      "getTokenTraits(uint256)",
		"getTokenRarity":      "getTokenRarity(uint256)",
		"accessRule":          "accessRule()",
		"collectionInfo":      "collectionInfo()",
	}
	for name, sig := range want {
		method, ok := parsed.Methods[name]
		if !ok {
			t.Fatalf("method %s missing from abi", name)
		}
		if method.Sig != sig {
			t.Fatalf("method %s signature: got %s want %s", name, method.Sig, sig)
		}
	}
}

func TestCollectionInfoTupleRoundTrip(t *testing.T) {
	t.Parallel()

	method := parsedABI(t).Methods["collectionInfo"]
	creator := common.HexToAddress("0x00000000000000000000000000000000000000C1")

	encoded, err := method.Outputs.Pack(collectionInfoTuple{
		Name:              "Genesis Pass",
		Symbol:            "GEN",
		Description:       "Event access collection",
		Category:          "event",
		RoyaltyPercentage: big.NewInt(5),
		MaxSupply:         big.NewInt(500),
		Price:             big.NewInt(1e15),
		IsActive:          true,
		Creator:           creator,
	})
	if err != nil {
		t.Fatalf("pack tuple: %v", err)
	}
	out, err := method.Outputs.Unpack(encoded)
	if err != nil {
		t.Fatalf("unpack tuple: %v", err)
	}

	info, err := decodeCollectionInfo(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Name != "Genesis Pass" || info.Symbol != "GEN" || info.Category != "event" || !info.IsActive {
		t.Fatalf("info mismatch: %+v", info)
	}
	if info.Creator != strings.ToLower(creator.Hex()) {
		t.Fatalf("creator not lowercased: %s", info.Creator)
	}
	if info.RoyaltyPercentage != 5 || info.MaxSupply != 500 || info.PriceWei != "1000000000000000" {
		t.Fatalf("numeric fields mismatch: %+v", info)
	}
}

func TestAccessRuleTupleRoundTrip(t *testing.T) {
	t.Parallel()

	method := parsedABI(t).Methods["accessRule"]
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	encoded, err := method.Outputs.Pack(accessRuleTuple{
		RuleType:      "specific-trait",
		TraitType:     "tier",
		TraitValue:    "vip",
		MinRarity:     big.NewInt(0),
		ValidityStart: big.NewInt(start.Unix()),
		ValidityEnd:   big.NewInt(end.Unix()),
		Transferable:  true,
	})
	if err != nil {
		t.Fatalf("pack tuple: %v", err)
	}
	out, err := method.Outputs.Unpack(encoded)
	if err != nil {
		t.Fatalf("unpack tuple: %v", err)
	}

	rule, err := decodeAccessRule(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rule.RuleType != "specific-trait" || rule.TraitType != "tier" || rule.TraitValue != "vip" {
		t.Fatalf("rule mismatch: %+v", rule)
	}
	if !rule.ValidityStart.Equal(start) || rule.ValidityEnd == nil || !rule.ValidityEnd.Equal(end) {
		t.Fatalf("validity window mismatch: %+v", rule)
	}
	if !rule.Transferable {
		t.Fatalf("transferable flag lost")
	}
}

func TestAccessRuleZeroEndIsOpenEnded(t *testing.T) {
	t.Parallel()

	method := parsedABI(t).Methods["accessRule"]
	encoded, err := method.Outputs.Pack(accessRuleTuple{
		RuleType:      "hold-one",
		MinRarity:     big.NewInt(0),
		ValidityStart: big.NewInt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Unix()),
		ValidityEnd:   big.NewInt(0),
		Transferable:  true,
	})
	if err != nil {
		t.Fatalf("pack tuple: %v", err)
	}
	out, err := method.Outputs.Unpack(encoded)
	if err != nil {
		t.Fatalf("unpack tuple: %v", err)
	}

	rule, err := decodeAccessRule(out)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rule.ValidityEnd != nil {
		t.Fatalf("zero validityEnd must decode as open-ended, got %v", rule.ValidityEnd)
	}
}
