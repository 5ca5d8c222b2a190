package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// LessonFilter 课表查询条件；PeriodID 必填，其余为空时不过滤
type LessonFilter struct {
	PeriodID    string
	ClassID     string
	ProfessorID string
	RoomID      string
}

// LessonRepository 课表数据访问接口
type LessonRepository interface {
	Create(ctx context.Context, l *model.Lesson) error
	GetByID(ctx context.Context, id string) (*model.Lesson, error)
	// Update 乐观锁更新
	Update(ctx context.Context, l *model.Lesson) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f LessonFilter) ([]model.Lesson, error)
	// ListActiveOnDay 某学期某星期的全部 active 课节，用于冲突检查
	ListActiveOnDay(ctx context.Context, periodID string, weekday int) ([]model.Lesson, error)
	// LockPeriod 对学期行加锁，同一学期的排课串行执行
	LockPeriod(ctx context.Context, periodID string) error
	CountActiveByRoom(ctx context.Context, roomID string) (int64, error)
	CountByClassSubject(ctx context.Context, classID, subjectID string) (int64, error)
}

type lessonRepo struct {
	db *gorm.DB
}

// NewLessonRepo 创建 LessonRepository 实例
func NewLessonRepo(db *gorm.DB) LessonRepository {
	return &lessonRepo{db: db}
}

func (r *lessonRepo) Create(ctx context.Context, l *model.Lesson) error {
	return translateError(r.db.WithContext(ctx).Create(l).Error)
}

func (r *lessonRepo) GetByID(ctx context.Context, id string) (*model.Lesson, error) {
	var l model.Lesson
	err := r.db.WithContext(ctx).
		Where("lesson_id = ?", id).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *lessonRepo) Update(ctx context.Context, l *model.Lesson) error {
	return updateVersioned(r.db.WithContext(ctx), l, &l.Version)
}

func (r *lessonRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("lesson_id = ?", id).
		Delete(&model.Lesson{}).Error
}

func (r *lessonRepo) List(ctx context.Context, f LessonFilter) ([]model.Lesson, error) {
	var lessons []model.Lesson
	db := r.db.WithContext(ctx).Where("period_id = ?", f.PeriodID)
	if f.ClassID != "" {
		db = db.Where("class_id = ?", f.ClassID)
	}
	if f.ProfessorID != "" {
		db = db.Where("professor_id = ?", f.ProfessorID)
	}
	if f.RoomID != "" {
		db = db.Where("room_id = ?", f.RoomID)
	}
	err := db.Order("weekday ASC, start_time ASC").Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) ListActiveOnDay(ctx context.Context, periodID string, weekday int) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.db.WithContext(ctx).
		Where("period_id = ? AND weekday = ? AND status = ?", periodID, weekday, model.LessonActive).
		Order("start_time ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *lessonRepo) LockPeriod(ctx context.Context, periodID string) error {
	var ids []string
	return r.db.WithContext(ctx).
		Model(&model.LecturePeriod{}).
		Where("period_id = ?", periodID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("period_id", &ids).Error
}

func (r *lessonRepo) CountActiveByRoom(ctx context.Context, roomID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("room_id = ? AND status = ?", roomID, model.LessonActive).
		Count(&n).Error
	return n, err
}

func (r *lessonRepo) CountByClassSubject(ctx context.Context, classID, subjectID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.Lesson{}).
		Where("class_id = ? AND subject_id = ?", classID, subjectID).
		Count(&n).Error
	return n, err
}
