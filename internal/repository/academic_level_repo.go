package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// AcademicLevelRepository 学历层次数据访问接口
type AcademicLevelRepository interface {
	Create(ctx context.Context, level *model.AcademicLevel) error
	GetByID(ctx context.Context, id string) (*model.AcademicLevel, error)
	List(ctx context.Context) ([]model.AcademicLevel, error)
	Update(ctx context.Context, level *model.AcademicLevel) error
}

type academicLevelRepo struct {
	db *gorm.DB
}

// NewAcademicLevelRepo 创建 AcademicLevelRepository 实例
func NewAcademicLevelRepo(db *gorm.DB) AcademicLevelRepository {
	return &academicLevelRepo{db: db}
}

func (r *academicLevelRepo) Create(ctx context.Context, level *model.AcademicLevel) error {
	return translateError(r.db.WithContext(ctx).Create(level).Error)
}

func (r *academicLevelRepo) GetByID(ctx context.Context, id string) (*model.AcademicLevel, error) {
	var level model.AcademicLevel
	err := r.db.WithContext(ctx).
		Where("level_id = ?", id).
		First(&level).Error
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *academicLevelRepo) List(ctx context.Context) ([]model.AcademicLevel, error) {
	var levels []model.AcademicLevel
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&levels).Error
	return levels, err
}

func (r *academicLevelRepo) Update(ctx context.Context, level *model.AcademicLevel) error {
	return translateError(r.db.WithContext(ctx).Save(level).Error)
}
