package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	// GetByIDForUpdate 在事务内锁住课程行（录取排名、注册时使用）
	GetByIDForUpdate(ctx context.Context, id string) (*model.Course, error)
	List(ctx context.Context, activeOnly bool) ([]model.Course, error)
	Update(ctx context.Context, course *model.Course) error
	// CountApproved 统计已录取人数；yearID 为空时不限学年
	CountApproved(ctx context.Context, courseID, yearID string) (int64, error)
	CountMatriculated(ctx context.Context, courseID, yearID string) (int64, error)
}

type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

func (r *courseRepo) Create(ctx context.Context, course *model.Course) error {
	return translateError(r.db.WithContext(ctx).Omit("Level").Create(course).Error)
}

func (r *courseRepo) GetByID(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Preload("Level").
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("course_id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *courseRepo) List(ctx context.Context, activeOnly bool) ([]model.Course, error) {
	var courses []model.Course
	db := r.db.WithContext(ctx).Preload("Level")
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	err := db.Order("name ASC").Find(&courses).Error
	return courses, err
}

func (r *courseRepo) Update(ctx context.Context, course *model.Course) error {
	return translateError(r.db.WithContext(ctx).Omit("Level").Save(course).Error)
}

func (r *courseRepo) CountApproved(ctx context.Context, courseID, yearID string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("course_id = ? AND approved = ?", courseID, true)
	if yearID != "" {
		db = db.Where("year_id = ?", yearID)
	}
	err := db.Count(&n).Error
	return n, err
}

func (r *courseRepo) CountMatriculated(ctx context.Context, courseID, yearID string) (int64, error) {
	var n int64
	db := r.db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("course_id = ? AND matriculation_status = ?", courseID, model.MatriculationDone)
	if yearID != "" {
		db = db.Where("year_id = ?", yearID)
	}
	err := db.Count(&n).Error
	return n, err
}
