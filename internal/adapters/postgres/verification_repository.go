package postgres

import (
	"context"
	"time"

	"github.com/ownership-platform/verification-service/internal/domain"
	"gorm.io/gorm"
)

type verificationRepository struct {
	db *gorm.DB
}

func (r *verificationRepository) Insert(ctx context.Context, verification domain.Verification) error {
	rec := toVerificationModel(verification)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *verificationRepository) ListByWallet(ctx context.Context, walletAddress string, limit, offset int) ([]domain.Verification, error) {
	var rows []verificationModel
	if err := r.db.WithContext(ctx).
		Where("wallet_address = ?", walletAddress).
		Order("verified_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Verification, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainVerification(row))
	}
	return result, nil
}

func (r *verificationRepository) CountByWallet(ctx context.Context, walletAddress string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&verificationModel{}).
		Where("wallet_address = ?", walletAddress).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *verificationRepository) DailyStats(ctx context.Context, contractAddress string, since time.Time) ([]domain.DailyStat, error) {
	var rows []domain.DailyStat
	err := r.db.WithContext(ctx).
		Model(&verificationModel{}).
		Select(
			"to_char(verified_at, 'YYYY-MM-DD') AS date, "+
				"count(*) FILTER (WHERE result = 'success') AS success, "+
				"count(*) FILTER (WHERE result = 'failed') AS failed, "+
				"count(*) AS total",
		).
		Where("contract_address = ?", contractAddress).
		Where("verified_at >= ?", since).
		Group("to_char(verified_at, 'YYYY-MM-DD')").
		Order("date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *verificationRepository) FailureReasons(ctx context.Context, contractAddress string, since time.Time) ([]domain.ReasonCount, error) {
	var rows []domain.ReasonCount
	err := r.db.WithContext(ctx).
		Model(&verificationModel{}).
		Select("reason, count(*) AS count").
		Where("contract_address = ?", contractAddress).
		Where("verified_at >= ?", since).
		Where("result = 'failed'").
		Where("reason IS NOT NULL").
		Group("reason").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *verificationRepository) OrganizerStats(ctx context.Context, organizerID string, since time.Time) (domain.OrganizerStats, error) {
	var stats domain.OrganizerStats
	err := r.db.WithContext(ctx).
		Model(&verificationModel{}).
		Select(
			"count(*) AS total_verifications, "+
				"count(*) FILTER (WHERE result = 'success') AS successful_verifications, "+
				"count(DISTINCT wallet_address) AS unique_wallets, "+
				"count(DISTINCT contract_address) AS unique_collections",
		).
		Where("organizer_id = ?", organizerID).
		Where("verified_at >= ?", since).
		Scan(&stats).Error
	if err != nil {
		return domain.OrganizerStats{}, err
	}
	if stats.TotalVerifications > 0 {
		stats.SuccessRate = float64(stats.SuccessfulVerifications) / float64(stats.TotalVerifications) * 100
	}
	return stats, nil
}

func (r *verificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("verified_at < ?", cutoff).
		Delete(&verificationModel{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
