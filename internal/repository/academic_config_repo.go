package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// AcademicConfigRepository 全局学术配置数据访问接口（单行）
type AcademicConfigRepository interface {
	// Get 没有记录时返回 gorm.ErrRecordNotFound
	Get(ctx context.Context) (*model.GlobalAcademicConfig, error)
	Create(ctx context.Context, cfg *model.GlobalAcademicConfig) error
	Update(ctx context.Context, cfg *model.GlobalAcademicConfig) error
}

type academicConfigRepo struct {
	db *gorm.DB
}

// NewAcademicConfigRepo 创建 AcademicConfigRepository 实例
func NewAcademicConfigRepo(db *gorm.DB) AcademicConfigRepository {
	return &academicConfigRepo{db: db}
}

func (r *academicConfigRepo) Get(ctx context.Context) (*model.GlobalAcademicConfig, error) {
	var cfg model.GlobalAcademicConfig
	err := r.db.WithContext(ctx).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *academicConfigRepo) Create(ctx context.Context, cfg *model.GlobalAcademicConfig) error {
	cfg.Singleton = true
	return translateError(r.db.WithContext(ctx).Create(cfg).Error)
}

func (r *academicConfigRepo) Update(ctx context.Context, cfg *model.GlobalAcademicConfig) error {
	cfg.Singleton = true
	return updateVersioned(r.db.WithContext(ctx), cfg, &cfg.Version)
}
