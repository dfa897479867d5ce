package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
	"gorm.io/gorm"
)

type deviceRepository struct {
	db *gorm.DB
}

func (r *deviceRepository) Create(ctx context.Context, params ports.DeviceCreateParams) (domain.Device, error) {
	code := params.PairingCode
	expiry := params.PairingCodeExpiry
	rec := deviceModel{
		WalletAddress:     params.WalletAddress,
		DeviceName:        params.DeviceName,
		DeviceType:        params.DeviceType,
		Platform:          params.Platform,
		PairingCode:       &code,
		PairingCodeExpiry: &expiry,
		IsActive:          true,
		LastUsed:          params.CreatedAt,
		LastIPAddress:     nullableString(params.LastIPAddress),
		UserAgent:         params.UserAgent,
		CreatedAt:         params.CreatedAt,
		UpdatedAt:         params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Device{}, err
	}
	return toDomainDevice(rec), nil
}

func (r *deviceRepository) GetByID(ctx context.Context, deviceID uuid.UUID) (domain.Device, error) {
	var rec deviceModel
	if err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Device{}, domain.ErrNotFound
		}
		return domain.Device{}, err
	}
	return toDomainDevice(rec), nil
}

func (r *deviceRepository) FindByLivePairingCode(ctx context.Context, code string, now time.Time) (domain.Device, error) {
	var rec deviceModel
	if err := r.db.WithContext(ctx).
		Where("pairing_code = ?", code).
		Where("pairing_code_expiry > ?", now).
		Where("is_active = TRUE").
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Device{}, domain.ErrNotFound
		}
		return domain.Device{}, err
	}
	return toDomainDevice(rec), nil
}

// CompletePairing consumes the code and promotes the device in one conditional
// update. RowsAffected decides the race: whichever caller matches the
// still-present code wins, everyone else observes zero rows.
func (r *deviceRepository) CompletePairing(ctx context.Context, deviceID uuid.UUID, code string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&deviceModel{}).
		Where("device_id = ?", deviceID).
		Where("pairing_code = ?", code).
		Where("pairing_code_expiry > ?", now).
		Where("is_active = TRUE").
		Updates(map[string]any{
			"pairing_code":        nil,
			"pairing_code_expiry": nil,
			"is_trusted":          true,
			"paired_at":           now,
			"last_used":           now,
			"updated_at":          now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *deviceRepository) ListActiveByWallet(ctx context.Context, walletAddress string) ([]domain.Device, error) {
	var rows []deviceModel
	if err := r.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		Where("is_active = TRUE").
		Order("last_used DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Device, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainDevice(row))
	}
	return result, nil
}

func (r *deviceRepository) Revoke(ctx context.Context, deviceID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&deviceModel{}).
		Where("device_id = ?", deviceID).
		Where("is_active = TRUE").
		Updates(map[string]any{
			"is_active":           false,
			"is_trusted":          false,
			"pairing_code":        nil,
			"pairing_code_expiry": nil,
			"updated_at":          at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).Model(&deviceModel{}).Where("device_id = ?", deviceID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *deviceRepository) RevokeAllByWallet(ctx context.Context, walletAddress string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&deviceModel{}).
		Where("wallet_address = ?", walletAddress).
		Where("is_active = TRUE").
		Updates(map[string]any{
			"is_active":           false,
			"is_trusted":          false,
			"pairing_code":        nil,
			"pairing_code_expiry": nil,
			"updated_at":          at,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *deviceRepository) Touch(ctx context.Context, deviceID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&deviceModel{}).
		Where("device_id = ?", deviceID).
		Where("is_trusted = TRUE").
		Where("is_active = TRUE").
		Updates(map[string]any{
			"last_used":           at,
			"total_verifications": gorm.Expr("total_verifications + 1"),
			"updated_at":          at,
		}).Error
}

// SweepExpiredCodes clears lapsed pairing codes from devices that never
// completed pairing. The rows stay so the owner can see stale enrollments.
func (r *deviceRepository) SweepExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&deviceModel{}).
		Where("pairing_code IS NOT NULL").
		Where("pairing_code_expiry <= ?", now).
		Updates(map[string]any{
			"pairing_code":        nil,
			"pairing_code_expiry": nil,
			"updated_at":          now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
