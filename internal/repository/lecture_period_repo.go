package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OsvaldoFernando/SIGE-APP/internal/model"
)

// LecturePeriodRepository 学期数据访问接口
type LecturePeriodRepository interface {
	Create(ctx context.Context, p *model.LecturePeriod) error
	GetByID(ctx context.Context, id string) (*model.LecturePeriod, error)
	GetCurrent(ctx context.Context, yearID string) (*model.LecturePeriod, error)
	Update(ctx context.Context, p *model.LecturePeriod) error
	ListByYear(ctx context.Context, yearID string) ([]model.LecturePeriod, error)
	LockByYear(ctx context.Context, yearID string) error
	ClearCurrent(ctx context.Context, yearID, exceptID string) error
}

type lecturePeriodRepo struct {
	db *gorm.DB
}

// NewLecturePeriodRepo 创建 LecturePeriodRepository 实例
func NewLecturePeriodRepo(db *gorm.DB) LecturePeriodRepository {
	return &lecturePeriodRepo{db: db}
}

func (r *lecturePeriodRepo) Create(ctx context.Context, p *model.LecturePeriod) error {
	return translateError(r.db.WithContext(ctx).Create(p).Error)
}

func (r *lecturePeriodRepo) GetByID(ctx context.Context, id string) (*model.LecturePeriod, error) {
	var p model.LecturePeriod
	err := r.db.WithContext(ctx).
		Where("period_id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *lecturePeriodRepo) GetCurrent(ctx context.Context, yearID string) (*model.LecturePeriod, error) {
	var p model.LecturePeriod
	err := r.db.WithContext(ctx).
		Where("year_id = ? AND is_current = ?", yearID, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *lecturePeriodRepo) Update(ctx context.Context, p *model.LecturePeriod) error {
	return translateError(r.db.WithContext(ctx).Save(p).Error)
}

func (r *lecturePeriodRepo) ListByYear(ctx context.Context, yearID string) ([]model.LecturePeriod, error) {
	var periods []model.LecturePeriod
	err := r.db.WithContext(ctx).
		Where("year_id = ?", yearID).
		Order("number ASC").
		Find(&periods).Error
	return periods, err
}

func (r *lecturePeriodRepo) LockByYear(ctx context.Context, yearID string) error {
	var ids []string
	return r.db.WithContext(ctx).
		Model(&model.LecturePeriod{}).
		Where("year_id = ?", yearID).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Pluck("period_id", &ids).Error
}

func (r *lecturePeriodRepo) ClearCurrent(ctx context.Context, yearID, exceptID string) error {
	return r.db.WithContext(ctx).
		Model(&model.LecturePeriod{}).
		Where("year_id = ? AND is_current = ? AND period_id <> ?", yearID, true, exceptID).
		Update("is_current", false).Error
}
