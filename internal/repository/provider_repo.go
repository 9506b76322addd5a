package repository

import (
	"context"

	"roomreserve/internal/domain"

	"gorm.io/gorm"
)

type ProviderRepository struct {
	db *gorm.DB
}

func NewProviderRepository(db *gorm.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

func (r *ProviderRepository) GetByName(ctx context.Context, name string) (*domain.PaymentProvider, error) {
	var p domain.PaymentProvider
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProviderRepository) List(ctx context.Context) ([]domain.PaymentProvider, error) {
	var out []domain.PaymentProvider
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
