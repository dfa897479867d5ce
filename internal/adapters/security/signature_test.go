package security

import (
	"crypto/ecdsa"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

func signMessage(t *testing.T, key *ecdsa.PrivateKey, message string, walletV bool) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		t.Fatalf("sign message: %v", err)
	}
	if walletV {
		sig[64] += 27
	}
	return hexutil.Encode(sig)
}

func TestVerifyRecoversSigner(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	message := "OWNERSHIP Platform\nAction: verify_ownership\nTimestamp: 1700000000000"

	v := NewPersonalSignVerifier()

	// Wallets emit v as 27/28; raw secp256k1 emits 0/1. Both must verify.
	if !v.Verify(message, signMessage(t, key, message, true), address) {
		t.Fatalf("wallet-style signature rejected")
	}
	if !v.Verify(message, signMessage(t, key, message, false), address) {
		t.Fatalf("raw recovery-id signature rejected")
	}
}

func TestVerifyAddressCaseInsensitive(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	message := "pair me"
	sig := signMessage(t, key, message, true)

	v := NewPersonalSignVerifier()
	if !v.Verify(message, sig, strings.ToLower(address)) {
		t.Fatalf("lowercase claimed address rejected")
	}
	if !v.Verify(message, sig, strings.ToUpper(address)) {
		t.Fatalf("uppercase claimed address rejected")
	}
}

func TestVerifyRejectsMismatchAndMalformed(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	otherKey, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	address := crypto.PubkeyToAddress(key.PublicKey).Hex()
	otherAddress := crypto.PubkeyToAddress(otherKey.PublicKey).Hex()
	message := "authorize session"
	sig := signMessage(t, key, message, true)

	v := NewPersonalSignVerifier()

	if v.Verify(message, sig, otherAddress) {
		t.Fatalf("signature accepted for the wrong wallet")
	}
	if v.Verify("tampered message", sig, address) {
		t.Fatalf("signature accepted for a different message")
	}
	if v.Verify("", sig, address) || v.Verify(message, "", address) || v.Verify(message, sig, "") {
		t.Fatalf("empty inputs must never verify")
	}
	if v.Verify(message, "not-hex", address) {
		t.Fatalf("non-hex signature accepted")
	}
	if v.Verify(message, "0xdeadbeef", address) {
		t.Fatalf("truncated signature accepted")
	}

	bad, err := hexutil.Decode(sig)
	if err != nil {
		t.Fatalf("decode signature: %v", err)
	}
	bad[64] = 9
	if v.Verify(message, hexutil.Encode(bad), address) {
		t.Fatalf("signature with invalid recovery byte accepted")
	}
}
