package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, s *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	GetByEnrollment(ctx context.Context, enrollmentID string) (*model.Student, error)
	Update(ctx context.Context, s *model.Student) error
	List(ctx context.Context, courseID string, offset, limit int) ([]model.Student, int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, s *model.Student) error {
	return translateError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("student_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) GetByEnrollment(ctx context.Context, enrollmentID string) (*model.Student, error) {
	var s model.Student
	err := r.db.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) Update(ctx context.Context, s *model.Student) error {
	return translateError(r.db.WithContext(ctx).Save(s).Error)
}

func (r *studentRepo) List(ctx context.Context, courseID string, offset, limit int) ([]model.Student, int64, error) {
	var list []model.Student
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Student{})
	if courseID != "" {
		db = db.Where("course_id = ?", courseID)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("number ASC").Offset(offset).Limit(limit).Find(&list).Error
	return list, total, err
}
