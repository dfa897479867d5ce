package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
)

// IssuePairingCode registers a new unpaired device for a wallet and returns
// the short code the wallet owner must later confirm with a signature. Issuing
// a code requires no authentication; the device stays powerless until the
// owner completes pairing.
func (s *Service) IssuePairingCode(ctx context.Context, req IssuePairingCodeRequest) (IssuePairingCodeResponse, error) {
	wallet, err := normalizeAddress(req.WalletAddress)
	if err != nil {
		return IssuePairingCodeResponse{}, err
	}
	name := strings.TrimSpace(req.DeviceName)
	if name == "" {
		return IssuePairingCodeResponse{}, fmt.Errorf("%w: device name is required", domain.ErrInvalidInput)
	}
	deviceType := strings.TrimSpace(req.DeviceType)
	if deviceType == "" {
		deviceType = "mobile"
	}

	now := s.nowFn()
	device, err := s.devices.Create(ctx, ports.DeviceCreateParams{
		WalletAddress:     wallet,
		DeviceName:        name,
		DeviceType:        deviceType,
		Platform:          strings.TrimSpace(req.Platform),
		PairingCode:       randomPairingCode(),
		PairingCodeExpiry: now.Add(s.cfg.PairingCodeTTL),
		LastIPAddress:     req.IPAddress,
		UserAgent:         req.UserAgent,
		CreatedAt:         now,
	})
	if err != nil {
		return IssuePairingCodeResponse{}, err
	}

	slog.Default().InfoContext(ctx, "pairing code issued",
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", "issue_pairing_code",
		"outcome", "success",
		"device_id", device.DeviceID,
		"wallet_address", wallet,
		"expires_at", *device.PairingCodeExpiry,
	)
	return IssuePairingCodeResponse{
		DeviceID:    device.DeviceID,
		PairingCode: *device.PairingCode,
		ExpiresAt:   *device.PairingCodeExpiry,
	}, nil
}

// CompletePairing consumes a live pairing code under the device owner's
// signature, promoting the device to trusted. The consume is a conditional
// update keyed on the code, so concurrent completions of the same code
// resolve to exactly one winner; every loser sees the code as invalid.
func (s *Service) CompletePairing(ctx context.Context, req CompletePairingRequest) (CompletePairingResponse, error) {
	wallet, err := normalizeAddress(req.WalletAddress)
	if err != nil {
		return CompletePairingResponse{}, err
	}
	code := strings.ToUpper(strings.TrimSpace(req.PairingCode))
	if code == "" {
		return CompletePairingResponse{}, fmt.Errorf("%w: pairing code is required", domain.ErrInvalidInput)
	}
	if req.Message == "" || req.Signature == "" {
		return CompletePairingResponse{}, fmt.Errorf("%w: message and signature are required", domain.ErrInvalidInput)
	}

	now := s.nowFn()
	device, err := s.devices.FindByLivePairingCode(ctx, code, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return CompletePairingResponse{}, domain.ErrPairingCodeInvalid
		}
		return CompletePairingResponse{}, err
	}
	if device.WalletAddress != wallet {
		return CompletePairingResponse{}, domain.ErrWalletMismatch
	}
	if err := s.checkSignedRequest(req.Message, req.Signature, wallet); err != nil {
		return CompletePairingResponse{}, err
	}

	won, err := s.devices.CompletePairing(ctx, device.DeviceID, code, now)
	if err != nil {
		return CompletePairingResponse{}, err
	}
	if !won {
		return CompletePairingResponse{}, domain.ErrPairingCodeInvalid
	}

	slog.Default().InfoContext(ctx, "device paired",
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", "complete_pairing",
		"outcome", "success",
		"device_id", device.DeviceID,
		"wallet_address", wallet,
	)
	return CompletePairingResponse{
		DeviceID:   device.DeviceID,
		DeviceName: device.DeviceName,
		PairedAt:   now,
	}, nil
}

// ListDevices returns a wallet's active devices, trusted or still pending.
func (s *Service) ListDevices(ctx context.Context, walletAddress string) ([]DeviceView, error) {
	wallet, err := normalizeAddress(walletAddress)
	if err != nil {
		return nil, err
	}
	devices, err := s.devices.ListActiveByWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}
	views := make([]DeviceView, 0, len(devices))
	for _, d := range devices {
		views = append(views, DeviceView{
			DeviceID:           d.DeviceID,
			DeviceName:         d.DeviceName,
			DeviceType:         d.DeviceType,
			Platform:           d.Platform,
			IsTrusted:          d.IsTrusted,
			LastUsed:           d.LastUsed,
			PairedAt:           d.PairedAt,
			TotalVerifications: d.TotalVerifications,
		})
	}
	return views, nil
}

// RevokeDevice permanently retires one device under the owner's signature.
// Revocation is terminal; re-enrolling means pairing a fresh device row.
func (s *Service) RevokeDevice(ctx context.Context, deviceID uuid.UUID, req RevokeDeviceRequest) error {
	wallet, err := normalizeAddress(req.WalletAddress)
	if err != nil {
		return err
	}
	if req.Message == "" || req.Signature == "" {
		return fmt.Errorf("%w: message and signature are required", domain.ErrInvalidInput)
	}
	device, err := s.devices.GetByID(ctx, deviceID)
	if err != nil {
		return err
	}
	if device.WalletAddress != wallet {
		return domain.ErrWalletMismatch
	}
	if err := s.checkSignedRequest(req.Message, req.Signature, wallet); err != nil {
		return err
	}
	return s.devices.Revoke(ctx, deviceID, s.nowFn())
}

// RevokeAllDevices retires every active device of a wallet in one signed call.
func (s *Service) RevokeAllDevices(ctx context.Context, req RevokeDeviceRequest) (int64, error) {
	wallet, err := normalizeAddress(req.WalletAddress)
	if err != nil {
		return 0, err
	}
	if req.Message == "" || req.Signature == "" {
		return 0, fmt.Errorf("%w: message and signature are required", domain.ErrInvalidInput)
	}
	if err := s.checkSignedRequest(req.Message, req.Signature, wallet); err != nil {
		return 0, err
	}
	revoked, err := s.devices.RevokeAllByWallet(ctx, wallet, s.nowFn())
	if err != nil {
		return 0, err
	}
	slog.Default().InfoContext(ctx, "devices revoked",
		"service", serviceName,
		"module", "application",
		"layer", "application",
		"operation", "revoke_all_devices",
		"outcome", "success",
		"wallet_address", wallet,
		"revoked", revoked,
	)
	return revoked, nil
}
