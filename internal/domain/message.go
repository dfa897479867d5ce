package domain

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/sha3"
)

// AppName prefixes every signable message. Clients reproduce the format
// byte-for-byte, so this string must never change.
const AppName = "OWNERSHIP Platform"

// MessageFreshnessWindow bounds how old a signed message's embedded timestamp
// may be before it is rejected as a replay.
const MessageFreshnessWindow = 10 * time.Minute

// SignableMessage builds the canonical message a wallet signs for an action.
// Contract-scoped actions append a Contract line; others omit it entirely.
func SignableMessage(action, contractAddress string, at time.Time) string {
	base := fmt.Sprintf("%s\nAction: %s\nTimestamp: %d", AppName, action, at.UnixMilli())
	if contractAddress != "" {
		return base + "\nContract: " + contractAddress
	}
	return base
}

// ParseMessageTimestamp extracts the epoch-millisecond timestamp embedded in a
// signable message. It tolerates the optional Contract suffix but nothing else.
func ParseMessageTimestamp(message string) (time.Time, error) {
	for _, line := range strings.Split(message, "\n") {
		raw, ok := strings.CutPrefix(line, "Timestamp: ")
		if !ok {
			continue
		}
		millis, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: malformed message timestamp", ErrInvalidInput)
		}
		return time.UnixMilli(millis).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: message has no timestamp", ErrInvalidInput)
}

// CheckMessageFreshness rejects messages whose embedded timestamp falls outside
// the replay window in either direction.
func CheckMessageFreshness(message string, now time.Time) error {
	ts, err := ParseMessageTimestamp(message)
	if err != nil {
		return err
	}
	if now.Sub(ts) > MessageFreshnessWindow || ts.Sub(now) > MessageFreshnessWindow {
		return ErrStaleMessage
	}
	return nil
}

// MessageHash returns the keccak-256 fingerprint stored alongside each
// verification record.
func MessageHash(message string) string {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(message))
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
