package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// StudentGradeRepository 学生成绩数据访问接口
type StudentGradeRepository interface {
	// Upsert 按 (student, subject, period) 覆盖写入
	Upsert(ctx context.Context, g *model.StudentGrade) error
	Get(ctx context.Context, studentID, subjectID, periodID string) (*model.StudentGrade, error)
	// ListByStudent yearID 为空时返回全部学年
	ListByStudent(ctx context.Context, studentID, yearID string) ([]model.StudentGrade, error)
	ListBySubjectPeriod(ctx context.Context, subjectID, periodID string) ([]model.StudentGrade, error)
}

type studentGradeRepo struct {
	db *gorm.DB
}

// NewStudentGradeRepo 创建 StudentGradeRepository 实例
func NewStudentGradeRepo(db *gorm.DB) StudentGradeRepository {
	return &studentGradeRepo{db: db}
}

func (r *studentGradeRepo) Upsert(ctx context.Context, g *model.StudentGrade) error {
	return translateError(r.db.WithContext(ctx).
		Omit("Subject").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "subject_id"}, {Name: "period_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"year_id", "professor_id", "partial1", "partial2", "exam", "retake", "attendance",
				"continuous_average", "final_grade", "outcome", "reason", "evaluated_at",
				"updated_at", "updated_by",
			}),
		}).
		Create(g).Error)
}

func (r *studentGradeRepo) Get(ctx context.Context, studentID, subjectID, periodID string) (*model.StudentGrade, error) {
	var g model.StudentGrade
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND subject_id = ? AND period_id = ?", studentID, subjectID, periodID).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *studentGradeRepo) ListByStudent(ctx context.Context, studentID, yearID string) ([]model.StudentGrade, error) {
	var list []model.StudentGrade
	db := r.db.WithContext(ctx).
		Preload("Subject").
		Where("student_id = ?", studentID)
	if yearID != "" {
		db = db.Where("year_id = ?", yearID)
	}
	err := db.Order("evaluated_at ASC").Find(&list).Error
	return list, err
}

func (r *studentGradeRepo) ListBySubjectPeriod(ctx context.Context, subjectID, periodID string) ([]model.StudentGrade, error) {
	var list []model.StudentGrade
	err := r.db.WithContext(ctx).
		Where("subject_id = ? AND period_id = ?", subjectID, periodID).
		Find(&list).Error
	return list, err
}
