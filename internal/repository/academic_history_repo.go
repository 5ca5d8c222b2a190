package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// AcademicHistoryRepository 既往学业记录数据访问接口
type AcademicHistoryRepository interface {
	Create(ctx context.Context, h *model.AcademicHistory) error
	GetByEnrollment(ctx context.Context, enrollmentID string) (*model.AcademicHistory, error)
	// UpsertGrade 按 (history, subject) 覆盖写入
	UpsertGrade(ctx context.Context, g *model.SubjectGrade) error
}

type academicHistoryRepo struct {
	db *gorm.DB
}

// NewAcademicHistoryRepo 创建 AcademicHistoryRepository 实例
func NewAcademicHistoryRepo(db *gorm.DB) AcademicHistoryRepository {
	return &academicHistoryRepo{db: db}
}

func (r *academicHistoryRepo) Create(ctx context.Context, h *model.AcademicHistory) error {
	return translateError(r.db.WithContext(ctx).Create(h).Error)
}

func (r *academicHistoryRepo) GetByEnrollment(ctx context.Context, enrollmentID string) (*model.AcademicHistory, error) {
	var h model.AcademicHistory
	err := r.db.WithContext(ctx).
		Preload("Grades").
		Where("enrollment_id = ?", enrollmentID).
		First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *academicHistoryRepo) UpsertGrade(ctx context.Context, g *model.SubjectGrade) error {
	return translateError(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "history_id"}, {Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"grade", "completion_year", "updated_at", "updated_by"}),
		}).
		Create(g).Error)
}
