package repository

import (
	"context"

	"gorm.io/gorm"

	"hotelbooking/internal/domain"
)

type PromotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

func (r *PromotionRepository) WithTx(tx *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: tx}
}

func (r *PromotionRepository) Create(ctx context.Context, p *domain.Promotion) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *PromotionRepository) GetByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	var p domain.Promotion
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepository) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	var p domain.Promotion
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// IncrementUsage bumps the usage counter atomically, refusing once maxUsage
// (when positive) is reached. Returns false when the limit blocked the claim.
func (r *PromotionRepository) IncrementUsage(ctx context.Context, id int64, maxUsage int) (bool, error) {
	q := r.db.WithContext(ctx).Model(&domain.Promotion{}).Where("id = ?", id)
	if maxUsage > 0 {
		q = q.Where("current_usage_count < ?", maxUsage)
	}
	res := q.UpdateColumn("current_usage_count", gorm.Expr("current_usage_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DecrementUsage releases one claimed use, never dropping below zero.
func (r *PromotionRepository) DecrementUsage(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&domain.Promotion{}).
		Where("id = ? AND current_usage_count > 0", id).
		UpdateColumn("current_usage_count", gorm.Expr("current_usage_count - 1")).Error
}
