package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/ownership-platform/verification-service/internal/domain"
	"github.com/ownership-platform/verification-service/internal/ports"
	"gorm.io/gorm"
)

type collectionRepository struct {
	db *gorm.DB
}

func (r *collectionRepository) Create(ctx context.Context, collection domain.Collection) (domain.Collection, error) {
	rec := toCollectionModel(collection)
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Collection{}, domain.ErrConflict
		}
		return domain.Collection{}, err
	}
	return toDomainCollection(rec), nil
}

func (r *collectionRepository) GetByContract(ctx context.Context, contractAddress string) (domain.Collection, error) {
	var rec collectionModel
	if err := r.db.WithContext(ctx).Where("contract_address = ?", contractAddress).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Collection{}, domain.ErrNotFound
		}
		return domain.Collection{}, err
	}
	return toDomainCollection(rec), nil
}

func (r *collectionRepository) ListActive(ctx context.Context, filter ports.CollectionFilter) ([]domain.Collection, int64, error) {
	query := r.db.WithContext(ctx).Model(&collectionModel{}).Where("is_active = TRUE")
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []collectionModel
	if err := query.Order("created_at DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	result := make([]domain.Collection, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainCollection(row))
	}
	return result, total, nil
}

func (r *collectionRepository) ListByCreator(ctx context.Context, creator string) ([]domain.Collection, error) {
	var rows []collectionModel
	if err := r.db.WithContext(ctx).
		Where("creator = ?", creator).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.Collection, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainCollection(row))
	}
	return result, nil
}

func (r *collectionRepository) Update(ctx context.Context, collection domain.Collection) (domain.Collection, error) {
	rec := toCollectionModel(collection)
	rec.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).
		Model(&collectionModel{}).
		Where("contract_address = ?", rec.ContractAddress).
		Updates(map[string]any{
			"name":             rec.Name,
			"description":      rec.Description,
			"category":         rec.Category,
			"image_url":        rec.ImageURL,
			"rule_type":        rec.RuleType,
			"rule_trait_type":  rec.RuleTraitType,
			"rule_trait_value": rec.RuleTraitValue,
			"rule_min_rarity":  rec.RuleMinRarity,
			"validity_start":   rec.ValidityStart,
			"validity_end":     rec.ValidityEnd,
			"transferable":     rec.Transferable,
			"is_active":        rec.IsActive,
			"updated_at":       rec.UpdatedAt,
		})
	if res.Error != nil {
		return domain.Collection{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Collection{}, domain.ErrNotFound
	}
	return r.GetByContract(ctx, rec.ContractAddress)
}

func (r *collectionRepository) Deactivate(ctx context.Context, contractAddress string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&collectionModel{}).
		Where("contract_address = ?", contractAddress).
		Where("is_active = TRUE").
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).Model(&collectionModel{}).Where("contract_address = ?", contractAddress).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
	}
	return nil
}

func (r *collectionRepository) IncrementVerifications(ctx context.Context, contractAddress string) error {
	return r.db.WithContext(ctx).
		Model(&collectionModel{}).
		Where("contract_address = ?", contractAddress).
		Update("total_verifications", gorm.Expr("total_verifications + 1")).Error
}
