package security

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// PersonalSignVerifier recovers the signer of an EIP-191 personal_sign
// payload and compares it to the claimed address case-insensitively.
type PersonalSignVerifier struct{}

func NewPersonalSignVerifier() *PersonalSignVerifier {
	return &PersonalSignVerifier{}
}

// Verify never returns an error; any decode or recovery failure is false.
// Wallets emit the recovery byte as 27/28, secp256k1 wants 0/1.
func (v *PersonalSignVerifier) Verify(message, signature, claimedAddress string) bool {
	if message == "" || signature == "" || claimedAddress == "" {
		return false
	}

	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != 65 {
		return false
	}
	if sig[64] >= 27 {
		sig = append([]byte(nil), sig...)
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return false
	}

	pubKey, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return false
	}
	recovered := crypto.PubkeyToAddress(*pubKey)
	return strings.EqualFold(recovered.Hex(), claimedAddress)
}
