package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// ProfessorRepository 教师数据访问接口
type ProfessorRepository interface {
	Create(ctx context.Context, p *model.Professor) error
	GetByID(ctx context.Context, id string) (*model.Professor, error)
	Update(ctx context.Context, p *model.Professor) error
	List(ctx context.Context, offset, limit int) ([]model.Professor, int64, error)
}

type professorRepo struct {
	db *gorm.DB
}

// NewProfessorRepo 创建 ProfessorRepository 实例
func NewProfessorRepo(db *gorm.DB) ProfessorRepository {
	return &professorRepo{db: db}
}

func (r *professorRepo) Create(ctx context.Context, p *model.Professor) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *professorRepo) GetByID(ctx context.Context, id string) (*model.Professor, error) {
	var p model.Professor
	err := r.db.WithContext(ctx).
		Where("professor_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *professorRepo) Update(ctx context.Context, p *model.Professor) error {
	return translateError(r.db.WithContext(ctx).Omit("code").Save(p).Error)
}

func (r *professorRepo) List(ctx context.Context, offset, limit int) ([]model.Professor, int64, error) {
	var list []model.Professor
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Professor{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("code ASC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}
