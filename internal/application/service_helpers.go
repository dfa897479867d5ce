package application

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ownership-platform/verification-service/internal/domain"
)

// normalizeAddress canonicalizes and validates a hex wallet/contract address.
// Lowercasing happens once here so every store key and comparison agrees.
func normalizeAddress(address string) (string, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		return "", fmt.Errorf("%w: address is required", domain.ErrInvalidInput)
	}
	if !common.IsHexAddress(trimmed) {
		return "", fmt.Errorf("%w: invalid address format", domain.ErrInvalidInput)
	}
	return strings.ToLower(common.HexToAddress(trimmed).Hex()), nil
}

// randomDigits returns a zero-padded random numeric code.
func randomDigits(size int) string {
	if size <= 0 {
		size = 6
	}
	max := uint64(1)
	for i := 0; i < size; i++ {
		max *= 10
	}
	raw := make([]byte, 4)
	_, _ = rand.Read(raw)
	return fmt.Sprintf("%0*d", size, uint64(binary.BigEndian.Uint32(raw))%max)
}

// randomPairingCode returns a 6-hex-char uppercase code for manual entry.
func randomPairingCode() string {
	raw := make([]byte, 3)
	_, _ = rand.Read(raw)
	return strings.ToUpper(hex.EncodeToString(raw))
}

// checkSignedRequest runs the shared freshness-then-signature gate used by
// every signed mutation. Freshness first: a stale message is rejected before
// any signature work.
func (s *Service) checkSignedRequest(message, signature, walletAddress string) error {
	if err := domain.CheckMessageFreshness(message, s.nowFn()); err != nil {
		return err
	}
	if !s.signatures.Verify(message, signature, walletAddress) {
		return domain.ErrInvalidSignature
	}
	return nil
}
