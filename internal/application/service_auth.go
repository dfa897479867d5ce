package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

// Challenge issues the canonical message a wallet must sign for an action.
// The embedded timestamp starts the replay window; no state is stored.
func (s *Service) Challenge(ctx context.Context, req ChallengeRequest) (ChallengeResponse, error) {
	if _, err := normalizeAddress(req.WalletAddress); err != nil {
		return ChallengeResponse{}, err
	}
	action := strings.TrimSpace(req.Action)
	if action == "" {
		action = "authenticate"
	}
	contract := ""
	if req.ContractAddress != "" {
		normalized, err := normalizeAddress(req.ContractAddress)
		if err != nil {
			return ChallengeResponse{}, err
		}
		contract = normalized
	}

	now := s.nowFn()
	return ChallengeResponse{
		Message:   domain.SignableMessage(action, contract, now),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.MessageFreshness),
	}, nil
}

// VerifyWallet completes the challenge-response handshake and issues a
// wallet-scoped session token consumed by the HTTP auth middleware.
func (s *Service) VerifyWallet(ctx context.Context, req WalletVerifyRequest) (WalletVerifyResponse, error) {
	wallet, err := normalizeAddress(req.WalletAddress)
	if err != nil {
		return WalletVerifyResponse{}, err
	}
	if req.Message == "" || req.Signature == "" {
		return WalletVerifyResponse{}, fmt.Errorf("%w: message and signature are required", domain.ErrInvalidInput)
	}
	if err := s.checkSignedRequest(req.Message, req.Signature, wallet); err != nil {
		return WalletVerifyResponse{}, err
	}

	now := s.nowFn()
	expiresAt := now.Add(s.cfg.TokenTTL)
	token, err := s.tokenSigner.Sign(ports.WalletClaims{
		WalletAddress: wallet,
		IssuedAt:      now,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		return WalletVerifyResponse{}, fmt.Errorf("sign wallet token: %w", err)
	}
	return WalletVerifyResponse{
		Token:         token,
		WalletAddress: wallet,
		ExpiresAt:     expiresAt,
	}, nil
}

// ValidateToken resolves the authenticated wallet from a bearer token.
func (s *Service) ValidateToken(ctx context.Context, raw string) (ports.WalletClaims, error) {
	claims, err := s.tokenSigner.ParseAndValidate(raw)
	if err != nil {
		return ports.WalletClaims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return claims, nil
}
