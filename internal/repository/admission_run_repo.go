package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// AdmissionRunRepository 录取排名记录数据访问接口
type AdmissionRunRepository interface {
	Create(ctx context.Context, run *model.AdmissionRun) error
	ListByCourse(ctx context.Context, courseID string, limit int) ([]model.AdmissionRun, error)
}

type admissionRunRepo struct {
	db *gorm.DB
}

// NewAdmissionRunRepo 创建 AdmissionRunRepository 实例
func NewAdmissionRunRepo(db *gorm.DB) AdmissionRunRepository {
	return &admissionRunRepo{db: db}
}

func (r *admissionRunRepo) Create(ctx context.Context, run *model.AdmissionRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *admissionRunRepo) ListByCourse(ctx context.Context, courseID string, limit int) ([]model.AdmissionRun, error) {
	var runs []model.AdmissionRun
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("run_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
