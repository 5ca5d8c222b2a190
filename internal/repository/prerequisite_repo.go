package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// PrerequisiteRepository 课程入学先修要求数据访问接口
type PrerequisiteRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]model.PrerequisiteRequirement, error)
	// ReplaceForCourse 整体替换课程的先修要求
	ReplaceForCourse(ctx context.Context, courseID string, reqs []model.PrerequisiteRequirement) error
	// CountBySubject 把该科目列为入学先修要求的记录数
	CountBySubject(ctx context.Context, subjectID string) (int64, error)
}

type prerequisiteRepo struct {
	db *gorm.DB
}

// NewPrerequisiteRepo 创建 PrerequisiteRepository 实例
func NewPrerequisiteRepo(db *gorm.DB) PrerequisiteRepository {
	return &prerequisiteRepo{db: db}
}

func (r *prerequisiteRepo) ListByCourse(ctx context.Context, courseID string) ([]model.PrerequisiteRequirement, error) {
	var reqs []model.PrerequisiteRequirement
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("course_id = ?", courseID).
		Order("sort_order ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *prerequisiteRepo) ReplaceForCourse(ctx context.Context, courseID string, reqs []model.PrerequisiteRequirement) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("course_id = ?", courseID).
		Delete(&model.PrerequisiteRequirement{}).Error; err != nil {
		return err
	}
	if len(reqs) == 0 {
		return nil
	}
	return translateError(db.Omit("Subject").Create(&reqs).Error)
}

func (r *prerequisiteRepo) CountBySubject(ctx context.Context, subjectID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.PrerequisiteRequirement{}).
		Where("subject_id = ?", subjectID).
		Count(&n).Error
	return n, err
}
