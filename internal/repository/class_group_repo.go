package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// ClassFilter 班级列表过滤条件；空字段不过滤
type ClassFilter struct {
	CourseID       string
	YearID         string
	CurricularYear int
}

// ClassGroupRepository 班级及其开设科目的数据访问接口
type ClassGroupRepository interface {
	Create(ctx context.Context, class *model.ClassGroup) error
	GetByID(ctx context.Context, id string) (*model.ClassGroup, error)
	List(ctx context.Context, f ClassFilter) ([]model.ClassGroup, error)
	Update(ctx context.Context, class *model.ClassGroup) error

	ListSubjects(ctx context.Context, classID string) ([]model.ClassSubject, error)
	GetSubject(ctx context.Context, classID, subjectID string) (*model.ClassSubject, error)
	// UpsertSubject 已开设时只更新任课教师
	UpsertSubject(ctx context.Context, cs *model.ClassSubject) error
	RemoveSubject(ctx context.Context, classID, subjectID string) (int64, error)
}

type classGroupRepo struct {
	db *gorm.DB
}

// NewClassGroupRepo 创建 ClassGroupRepository 实例
func NewClassGroupRepo(db *gorm.DB) ClassGroupRepository {
	return &classGroupRepo{db: db}
}

func (r *classGroupRepo) Create(ctx context.Context, class *model.ClassGroup) error {
	return translateError(r.db.WithContext(ctx).Create(class).Error)
}

func (r *classGroupRepo) GetByID(ctx context.Context, id string) (*model.ClassGroup, error) {
	var class model.ClassGroup
	err := r.db.WithContext(ctx).
		Where("class_id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classGroupRepo) List(ctx context.Context, f ClassFilter) ([]model.ClassGroup, error) {
	var classes []model.ClassGroup
	db := r.db.WithContext(ctx)
	if f.CourseID != "" {
		db = db.Where("course_id = ?", f.CourseID)
	}
	if f.YearID != "" {
		db = db.Where("year_id = ?", f.YearID)
	}
	if f.CurricularYear > 0 {
		db = db.Where("curricular_year = ?", f.CurricularYear)
	}
	err := db.Order("curricular_year ASC, name ASC").Find(&classes).Error
	return classes, err
}

func (r *classGroupRepo) Update(ctx context.Context, class *model.ClassGroup) error {
	return translateError(r.db.WithContext(ctx).Save(class).Error)
}

func (r *classGroupRepo) ListSubjects(ctx context.Context, classID string) ([]model.ClassSubject, error) {
	var list []model.ClassSubject
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Where("class_id = ?", classID).
		Find(&list).Error
	return list, err
}

func (r *classGroupRepo) GetSubject(ctx context.Context, classID, subjectID string) (*model.ClassSubject, error) {
	var cs model.ClassSubject
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND subject_id = ?", classID, subjectID).
		First(&cs).Error
	if err != nil {
		return nil, err
	}
	return &cs, nil
}

func (r *classGroupRepo) UpsertSubject(ctx context.Context, cs *model.ClassSubject) error {
	err := r.db.WithContext(ctx).
		Omit("Subject").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "class_id"}, {Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"professor_id", "updated_at", "updated_by"}),
		}).
		Create(cs).Error
	return translateError(err)
}

func (r *classGroupRepo) RemoveSubject(ctx context.Context, classID, subjectID string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("class_id = ? AND subject_id = ?", classID, subjectID).
		Delete(&model.ClassSubject{})
	return res.RowsAffected, translateError(res.Error)
}
