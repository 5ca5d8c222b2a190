package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// CurriculumGradeRepository 课程方案数据访问接口
type CurriculumGradeRepository interface {
	Create(ctx context.Context, grade *model.CurriculumGrade) error
	GetByID(ctx context.Context, id string) (*model.CurriculumGrade, error)
	GetActiveByCourse(ctx context.Context, courseID string) (*model.CurriculumGrade, error)
	ListByCourse(ctx context.Context, courseID string) ([]model.CurriculumGrade, error)
	Update(ctx context.Context, grade *model.CurriculumGrade) error
	LockByCourse(ctx context.Context, courseID string) error
	// ObsoleteOthers 同课程其他 active 方案改为 obsolete；exceptID 为空时不排除任何方案
	ObsoleteOthers(ctx context.Context, courseID, exceptID string) error
}

type curriculumGradeRepo struct {
	db *gorm.DB
}

// NewCurriculumGradeRepo 创建 CurriculumGradeRepository 实例
func NewCurriculumGradeRepo(db *gorm.DB) CurriculumGradeRepository {
	return &curriculumGradeRepo{db: db}
}

func (r *curriculumGradeRepo) Create(ctx context.Context, grade *model.CurriculumGrade) error {
	return translateError(r.db.WithContext(ctx).Create(grade).Error)
}

func (r *curriculumGradeRepo) GetByID(ctx context.Context, id string) (*model.CurriculumGrade, error) {
	var grade model.CurriculumGrade
	err := r.db.WithContext(ctx).
		Where("grade_id = ?", id).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *curriculumGradeRepo) GetActiveByCourse(ctx context.Context, courseID string) (*model.CurriculumGrade, error) {
	var grade model.CurriculumGrade
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND status = ?", courseID, model.GradeActive).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *curriculumGradeRepo) ListByCourse(ctx context.Context, courseID string) ([]model.CurriculumGrade, error) {
	var grades []model.CurriculumGrade
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&grades).Error
	return grades, err
}

func (r *curriculumGradeRepo) Update(ctx context.Context, grade *model.CurriculumGrade) error {
	return translateError(r.db.WithContext(ctx).Save(grade).Error)
}

func (r *curriculumGradeRepo) LockByCourse(ctx context.Context, courseID string) error {
	var ids []string
	return r.db.WithContext(ctx).
		Model(&model.CurriculumGrade{}).
		Where("course_id = ?", courseID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("grade_id", &ids).Error
}

func (r *curriculumGradeRepo) ObsoleteOthers(ctx context.Context, courseID, exceptID string) error {
	db := r.db.WithContext(ctx).
		Model(&model.CurriculumGrade{}).
		Where("course_id = ? AND status = ?", courseID, model.GradeActive)
	if exceptID != "" {
		db = db.Where("grade_id <> ?", exceptID)
	}
	return db.Update("status", model.GradeObsolete).Error
}
